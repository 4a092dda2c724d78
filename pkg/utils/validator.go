package utils

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator подключает validator.Validate к echo (ctx.Validate).
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
