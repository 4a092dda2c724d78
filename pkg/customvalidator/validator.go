// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^\d{10}$`)
	cityRegex    = regexp.MustCompile(`^[\p{L}][\p{L} .\-]*$`)
	invoiceRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-/]*$`)
)

// RegisterCustomValidations регистрирует правила форм в валидаторе.
// pageSizes - допустимые размеры страницы для правила page_size.
func RegisterCustomValidations(v *validator.Validate, pageSizes []int) error {
	rules := map[string]validator.Func{
		"email":      isGoodEmailFormat,
		"phone":      isLocalPhoneNumber,
		"city_name":  isCityName,
		"invoice_no": isInvoiceNumber,
		"page_size":  isAllowedPageSize(pageSizes),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isLocalPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func isCityName(fl validator.FieldLevel) bool {
	return cityRegex.MatchString(fl.Field().String())
}

func isInvoiceNumber(fl validator.FieldLevel) bool {
	return invoiceRegex.MatchString(fl.Field().String())
}

func isAllowedPageSize(sizes []int) validator.Func {
	allowed := make(map[int64]bool, len(sizes))
	for _, s := range sizes {
		allowed[int64(s)] = true
	}
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return allowed[field.Int()]
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return allowed[int64(field.Uint())]
		case reflect.String:
			n, err := strconv.ParseInt(field.String(), 10, 64)
			return err == nil && allowed[n]
		}
		return false
	}
}
