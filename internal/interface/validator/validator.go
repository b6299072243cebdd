package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// CustomValidator はEcho用のカスタムバリデーターです
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator は新しいCustomValidatorを作成します
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	// エラーのフィールド名はJSON/クエリ上の名前で返す
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("nonul", noNUL)

	return &CustomValidator{validator: v}
}

// Validate はリクエストを検証します
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.NewValidationError(err.Error(), nil)
	}

	details := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperror.FieldError{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}

	return apperror.NewValidationError("validation failed", details)
}

// noNUL はNUL文字を含まない文字列か検証します（PostgreSQLのtextはNULを保存できない）
func noNUL(fl validator.FieldLevel) bool {
	return strings.IndexByte(fl.Field().String(), 0) < 0
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query", "param", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if e.Kind() == reflect.Int {
			return "must be >= " + e.Param()
		}
		return "must be at least " + e.Param() + " characters"
	case "max":
		if e.Kind() == reflect.Int {
			return "must be <= " + e.Param()
		}
		return "must be at most " + e.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	case "nonul":
		return "must not contain NUL characters"
	default:
		return "validation failed"
	}
}
