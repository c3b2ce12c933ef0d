package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Ошибки адресуются по json-именам полей, как их видит клиент
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})

	return v
}

// Struct проверяет теги validate и возвращает ошибки по полям
func Struct(s any) Errors {
	errs := Errors{}

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(NonFieldErrors, err.Error())
		return errs
	}

	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), tagMessage(fe))
	}

	return errs
}

func tagMessage(fe validator.FieldError) string {
	message, ok := tagMessages[fe.Tag()]
	if !ok {
		return "Некорректное значение"
	}
	if strings.Contains(message, "%s") {
		return fmt.Sprintf(message, strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return message
}
