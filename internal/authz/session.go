package authz

import (
	"context"
	"sort"

	"pest-erp/pkg/utils"
)

// Session - пользователь запроса. Только для чтения, передаётся явно.
type Session struct {
	UserID      uint64
	Permissions map[string]bool
}

func NewSession(userID uint64, permissions []string) Session {
	perms := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		perms[p] = true
	}
	return Session{UserID: userID, Permissions: perms}
}

// SessionFromContext собирает Session из того, что положил AuthMiddleware.
func SessionFromContext(ctx context.Context) (Session, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return Session{}, err
	}
	perms, err := utils.GetPermissionsMapFromCtx(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: userID, Permissions: perms}, nil
}

func (s Session) IsSuperuser() bool {
	return s.Permissions[Superuser]
}

// Has - superuser имеет любое право; пустое право доступно всем.
func (s Session) Has(permission string) bool {
	return permission == "" || s.IsSuperuser() || s.Permissions[permission]
}

// PermissionList - отсортированный список прав (для логов и токенов).
func (s Session) PermissionList() []string {
	out := make([]string, 0, len(s.Permissions))
	for p, ok := range s.Permissions {
		if ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
