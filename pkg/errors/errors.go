package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrUnauthorized      = fmt.Errorf("неавторизован")
	ErrForbidden         = fmt.Errorf("доступ запрещён")

	// Списки
	ErrListNotFound       = fmt.Errorf("список не найден")
	ErrUnsupportedFormat  = fmt.Errorf("неподдерживаемый формат экспорта")
	ErrFieldNotFilterable = fmt.Errorf("поле недоступно для фильтрации")
	ErrFetchSuperseded    = fmt.Errorf("запрос заменён более новым")

	// Общие
	ErrNotFound       = fmt.Errorf("запись не найдена")
	ErrBadRequest     = fmt.Errorf("неверный запрос")
	ErrInternalServer = fmt.Errorf("внутренняя ошибка сервера")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError - ошибка с HTTP-кодом и сообщением для пользователя.
// Err - техническая причина, в ответ клиенту не попадает, только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

// WithDetails прикладывает тело ответа (например, список полей с ошибками).
func (e *HttpError) WithDetails(details interface{}) *HttpError {
	e.Details = details
	return e
}

// StatusCode сопоставляет известные ошибки с HTTP-кодом.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case is(err, ErrNotFound), is(err, ErrListNotFound):
		return http.StatusNotFound
	case is(err, ErrBadRequest), is(err, ErrUnsupportedFormat), is(err, ErrFieldNotFilterable):
		return http.StatusBadRequest
	case is(err, ErrEmptyAuthHeader), is(err, ErrInvalidAuthHeader), is(err, ErrUnauthorized),
		is(err, ErrInvalidToken), is(err, ErrTokenExpired), is(err, ErrTokenNotYetValid),
		is(err, ErrTokenIsNotAccess), is(err, ErrInvalidSigningMethod):
		return http.StatusUnauthorized
	case is(err, ErrForbidden):
		return http.StatusForbidden
	case is(err, ErrFetchSuperseded):
		return http.StatusConflict
	}
	var invalid *InvalidInputError
	if as(err, &invalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func is(err, target error) bool { return stderrors.Is(err, target) }

func as(err error, target interface{}) bool { return stderrors.As(err, target) }
