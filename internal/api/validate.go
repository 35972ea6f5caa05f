package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerEnum("grade_scale", "{0} must be standard_40 or alt_linear_40", func(v string) bool {
		_, ok := grades.ParseScale(v)
		return ok
	})
	registerEnum("grade_method", "{0} must be simple or ucd_21", func(v string) bool {
		_, ok := grades.ParseMethod(v)
		return ok
	})
	registerEnum("grade_status", "{0} must be one of entered, abs, nm, pending", func(v string) bool {
		_, ok := grades.ParseStatus(v)
		return ok
	})
	registerEnum("input_mode", "{0} must be percent, raw or letter", func(v string) bool {
		_, ok := grades.ParseInputMode(v)
		return ok
	})
}

func registerEnum(tag, message string, ok func(string) bool) {
	_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	})
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, message, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}

// validationMessage flattens decode and validation errors into one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return strings.Join(msgs, "; ")
}
