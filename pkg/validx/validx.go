// Package validx wraps a shared go-playground/validator instance and turns
// its errors into per-field messages suitable for re-rendering a form.
package validx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their form name so messages line up with inputs.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("nocontrol", noControl)
	})
	return validate
}

// noControl rejects control characters other than tab and line breaks.
func noControl(fl validator.FieldLevel) bool {
	return !ContainsControl(fl.Field().String())
}

// ContainsControl reports whether s holds a control character other than
// tab, CR or LF.
func ContainsControl(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r'
	}) >= 0
}

// FieldErrors maps a form field name to its first failing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Struct validates s. It returns nil or a FieldErrors.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

// message renders the failure the way the forum forms phrase it.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "Este campo es obligatorio."
	case "email":
		return "Dirección de email inválida."
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres.", fe.Param())
	case "max":
		return fmt.Sprintf("No puede superar los %s caracteres.", fe.Param())
	case "eqfield":
		return "Las contraseñas deben coincidir."
	case "nocontrol":
		return "Contiene caracteres no permitidos."
	default:
		return "Valor inválido."
	}
}
