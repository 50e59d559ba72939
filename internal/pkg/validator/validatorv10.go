package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/twofa/internal/pkg/strcase"
)

// reTOTPSecret matches an unpadded or padded RFC 4648 base32 secret.
var reTOTPSecret = regexp.MustCompile(`^[A-Za-z2-7]+=*$`)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are field names in lowerCamelCase to match the JSON request bodies.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	v10CustomValidation(validate, enTrans)

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		errV10 := make(V10ValidationError)
		for _, fe := range validateErrs {
			errV10[strcase.ToLowerCamel(fe.Field())] = fe.Translate(v.translator)
		}

		return errV10
	}

	return nil
}

// customRule is a string-only validation tag with its English message.
type customRule struct {
	tag string
	msg string
	re  *regexp.Regexp
}

var customRules = []customRule{
	{tag: "totpsecret", msg: "{0} must be a base32 encoded secret", re: reTOTPSecret},
}

//nolint:errcheck,gosec,forcetypeassert // make linter silent
func v10CustomValidation(validate *validator.Validate, enTrans ut.Translator) {
	for _, rule := range customRules {
		validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && rule.re.MatchString(s)
		})

		validate.RegisterTranslation(rule.tag, enTrans,
			func(ut ut.Translator) error {
				return ut.Add(rule.tag, rule.msg, false)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, err := ut.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("translating validation error", "tag", fe.Tag(), "field", fe.Field(), "error", err)
					return fe.(error).Error()
				}
				return t
			},
		)
	}
}
