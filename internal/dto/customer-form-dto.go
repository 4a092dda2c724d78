package dto

import (
	"strings"

	"pest-erp/pkg/utils"
)

type CustomerFormDTO struct {
	Name  string `json:"name" validate:"required,max=150"`
	Phone string `json:"phone" validate:"required,phone"`
	Email string `json:"email" validate:"omitempty,email"`
	City  string `json:"city" validate:"required,city_name"`
}

// Masked применяет те же маски, что и поля формы при вводе.
func (f CustomerFormDTO) Masked() CustomerFormDTO {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = utils.MaskPhone(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.City = strings.TrimSpace(utils.MaskCityName(f.City))
	return f
}
