package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
)

type violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PayloadError lists every violation found in request payload
type PayloadError struct {
	violations []violation
}

func (e *PayloadError) Error() string {
	buff := bytes.NewBufferString("")

	for _, err := range e.violations {
		buff.WriteString(err.Message)
		buff.WriteString("\n")
	}

	return buff.String()
}

// Violation appends violation to the error
func (e *PayloadError) Violation(v violation) {
	e.violations = append(e.violations, v)
}

func (e *PayloadError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Errors []violation `json:"errors"`
	}{
		Errors: e.violations,
	})
}

// Translator builds english translator and registers default validator translations for it
func Translator(v *validator.Validate) (ut.Translator, error) {
	enLocale := en.New()
	unvTranslator := ut.New(enLocale, enLocale)

	trans, ok := unvTranslator.GetTranslator("en")
	if !ok {
		return nil, errors.New("missing en translations")
	}

	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}
	return trans, nil
}

// EchoValidator validates request payloads bound by echo
type EchoValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// Echo builds EchoValidator
func Echo(validator *validator.Validate, translator ut.Translator) *EchoValidator {
	validator.RegisterTagNameFunc(tagName("json"))
	return &EchoValidator{
		validator:  validator,
		translator: translator,
	}
}

// Validate implements echo.Validator
func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return v.payloadError(ve)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (v *EchoValidator) payloadError(ve validator.ValidationErrors) error {
	pldErr := &PayloadError{violations: make([]violation, 0)}
	for _, e := range ve {
		pldErr.Violation(violation{
			Field:   e.Field(),
			Message: e.Translate(v.translator),
		})
	}
	return pldErr
}

// EntityValidator checks column constraints of entities before they are written
type EntityValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// NewEntityValidator builds EntityValidator reporting fields by their column names
func NewEntityValidator() (*EntityValidator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(tagName("db"))

	trans, err := Translator(v)
	if err != nil {
		return nil, err
	}

	return &EntityValidator{validator: v, translator: trans}, nil
}

// Validate returns ConstraintViolation for the first broken field rule of entity
func (v *EntityValidator) Validate(entity string, i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}

	fe := ve[0]
	return bankErrors.NewConstraintViolation(entity, fe.Field(), fe.Tag(), fe.Translate(v.translator))
}

func tagName(tag string) validator.TagNameFunc {
	return func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	}
}
