package lists

import (
	"fmt"
	"sync"

	apperrors "pest-erp/pkg/errors"
)

type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register добавляет список. Повторное имя - ошибка.
func (r *Registry) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("список %q уже зарегистрирован", def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", apperrors.ErrListNotFound, name)
	}
	return def, nil
}

// All - в порядке регистрации.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Visible - списки, право на которые есть у пользователя.
func (r *Registry) Visible(can func(permission string) bool) []Definition {
	var out []Definition
	for _, def := range r.All() {
		if can(def.Permission) {
			out = append(out, def)
		}
	}
	return out
}
