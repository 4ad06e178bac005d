package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError describes one failed rule on one payload field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error is returned when a payload fails struct validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validator wraps a configured validator with english messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a validator that reports json field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterTranslation("notblank", trans, func(t ut.Translator) error {
		return t.Add("notblank", "{0} must not be blank", true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T("notblank", fe.Field())
		return msg
	})

	return &Validator{validate: v, trans: trans}
}

// Struct validates s and converts failures into an *Error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	root := reflect.Indirect(reflect.ValueOf(s)).Type().Name()
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe, root),
			Tag:     fe.Tag(),
			Message: fe.Translate(v.trans),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace ("wordInput.translations[0].text").
func fieldPath(fe validator.FieldError, root string) string {
	if ns, ok := strings.CutPrefix(fe.Namespace(), root+"."); ok {
		return ns
	}
	return fe.Field()
}

var defaultValidator = New()

// Struct validates s with the shared validator.
func Struct(s any) error {
	return defaultValidator.Struct(s)
}
