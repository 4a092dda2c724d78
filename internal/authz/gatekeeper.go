package authz

// Gatekeeper остается пустым, это просто "контейнер" для методов
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// CanView - просмотр списка с правом permission.
func (g *Gatekeeper) CanView(s Session, permission string) bool {
	return s.Has(permission)
}

// CanExport - выгрузка требует и права на список, и lists:export.
func (g *Gatekeeper) CanExport(s Session, permission string) bool {
	if s.IsSuperuser() {
		return true
	}
	return s.Has(permission) && s.Permissions[ListsExport]
}
