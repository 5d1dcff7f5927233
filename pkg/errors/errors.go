package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = errors.New("잘못된 토큰 서명 방식입니다")
	ErrInvalidToken         = errors.New("유효하지 않은 토큰입니다")
	ErrTokenExpired         = errors.New("토큰이 만료되었습니다")

	// Авторизация
	ErrEmptyAuthHeader    = errors.New("인증 헤더가 없습니다")
	ErrInvalidAuthHeader  = errors.New("인증 헤더 형식이 올바르지 않습니다")
	ErrInvalidCredentials = errors.New("아이디 또는 비밀번호가 올바르지 않습니다")
	ErrUnauthorized       = errors.New("로그인이 필요합니다")
	ErrForbidden          = errors.New("권한이 없습니다")
	ErrSessionNotFound    = errors.New("세션이 만료되었습니다. 다시 로그인해 주세요")

	// Контекст
	ErrPrincipalNotFoundInContext = errors.New("요청 컨텍스트에 사용자 정보가 없습니다")

	// Общие
	ErrNotFound     = errors.New("데이터를 찾을 수 없습니다")
	ErrBadRequest   = errors.New("잘못된 요청입니다")
	ErrInProgress   = errors.New("이미 처리 중입니다")
	ErrActionFailed = errors.New("작업에 실패했습니다")
)

// HttpError - ошибка с HTTP-кодом и сообщением для пользователя.
// Err хранит техническую причину и в ответ не попадает.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

// ValidationError возникает до сетевого вызова: запрос к бэкенду не отправляется.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// statusTable - HTTP-коды известных sentinel-ошибок.
var statusTable = []struct {
	err  error
	code int
}{
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrSessionNotFound, http.StatusUnauthorized},
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrTokenExpired, http.StatusUnauthorized},
	{ErrEmptyAuthHeader, http.StatusUnauthorized},
	{ErrInvalidAuthHeader, http.StatusUnauthorized},
	{ErrInvalidSigningMethod, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrPrincipalNotFoundInContext, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrNotFound, http.StatusNotFound},
	{ErrBadRequest, http.StatusBadRequest},
	{ErrInProgress, http.StatusConflict},
	{ErrActionFailed, http.StatusBadGateway},
}

// StatusFor подбирает HTTP-код и пользовательскую ошибку для известных sentinel-ошибок.
func StatusFor(err error) (int, error, bool) {
	for _, row := range statusTable {
		if errors.Is(err, row.err) {
			return row.code, row.err, true
		}
	}
	return 0, nil, false
}
