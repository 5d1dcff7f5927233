// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
)

var koreanPhoneRe = regexp.MustCompile(`^01[016789]-?\d{3,4}-?\d{4}$`)

// New создаёт валидатор со всеми правилами консоли.
func New() (*validator.Validate, error) {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	return v, nil
}

// RegisterCustomValidations регистрирует правила, завязанные на перечисления заявок.
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"order_status":     oneOfFunc(constants.IsOrderStatus),
		"recipient":        oneOfFunc(constants.IsRecipient),
		"quote_stage":      oneOfFunc(constants.IsQuoteStage),
		"order_field":      oneOfFunc(constants.IsEditableOrderField),
		"designation_type": oneOfFunc(isDesignationType),
		"message_template": oneOfFunc(isMessageTemplate),
		"kr_phone":         isKoreanPhoneNumber,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("правило %s: %w", tag, err)
		}
	}
	return nil
}

func oneOfFunc(allowed func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return allowed(fl.Field().String())
	}
}

func isDesignationType(v string) bool {
	for _, d := range constants.DesignationTypes {
		if d == v {
			return true
		}
	}
	return false
}

func isMessageTemplate(v string) bool {
	_, ok := constants.MessageTemplates[v]
	return ok
}

func isKoreanPhoneNumber(fl validator.FieldLevel) bool {
	return koreanPhoneRe.MatchString(fl.Field().String())
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

var tagMessages = map[string]string{
	"required":         "필수 입력 항목입니다",
	"required_if":      "필수 입력 항목입니다",
	"http_url":         "올바른 URL 형식이 아닙니다",
	"url":              "올바른 URL 형식이 아닙니다",
	"order_status":     "알 수 없는 상태입니다",
	"recipient":        "수신 대상은 company, customer, both 중 하나여야 합니다",
	"quote_stage":      "견적 단계는 draft, 1st, 2nd, 3rd, final 중 하나여야 합니다",
	"order_field":      "수정할 수 없는 필드입니다",
	"designation_type": "알 수 없는 지정 유형입니다",
	"message_template": "알 수 없는 메시지 템플릿입니다",
	"kr_phone":         "전화번호 형식이 올바르지 않습니다",
	"min":              "값이 너무 짧거나 적습니다",
	"max":              "값이 너무 길거나 많습니다",
	"gt":               "0보다 커야 합니다",
}

// ToValidationError превращает ошибку validator в *apperrors.ValidationError
// по первому непрошедшему полю.
func ToValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &apperrors.ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("'%s' 검사를 통과하지 못했습니다", fe.Tag())
	}
	return &apperrors.ValidationError{Field: fe.Field(), Message: msg}
}
