// Package validate checks option structs with go-playground/validator and maps failures to project errors
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "taglint/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel aliases validator.FieldLevel
type FieldLevel = validator.FieldLevel

type svc struct {
	v     *validator.Validate
	trans ut.Translator
	mu    sync.Mutex
}

var (
	vOnce sync.Once
	vSvc  *svc
)

func get() *svc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// name fields after the env key they are read from
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if tag := fld.Tag.Get("env"); tag != "" && tag != "-" {
				return tag
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerMessage(v, trans, "required_if", "{0} is required for this output")

		vSvc = &svc{v: v, trans: trans}
	})
	return vSvc
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, msg string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			m, _ := ut.T(tag, fe.Field(), fe.Param())
			return m
		},
	)
}

// Register adds a custom tag and its message; {0} in msg is the field name
func Register(tag, msg string, fn func(FieldLevel) bool) error {
	s := get()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.RegisterValidation(tag, validator.Func(fn)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "register validation %s", tag)
	}
	registerMessage(s.v, s.trans, tag, msg)
	return nil
}

// Struct validates v and returns the first failure as a Validation error whose field is the env key
func Struct(v any) error {
	err := get().v.Struct(v)
	if err == nil {
		return nil
	}
	field, msg := FieldAndMessage(err)
	e := perr.Newf(perr.ErrorCodeValidation, "%s", msg)
	if field != "" {
		return perr.WithField(e, field)
	}
	return e
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			return fe.Field(), strings.TrimSpace(fe.Translate(get().trans))
		}
	}
	return "", err.Error()
}
