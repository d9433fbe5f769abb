package graphql

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one validation failure for one argument field.
type FieldError struct {
	Field   string
	Message string
}

// Validator binds an operation's variables into its typed argument struct
// and checks the declared constraints. It is pure: no I/O, no state
// change; a non-empty result short-circuits the pipeline before the
// resolver runs.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	// report fields by their wire (json) name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Bind decodes the variables map into dst. Type mismatches (e.g. a
// non-numeric id) come back as field errors rather than raw decode noise.
func (va *Validator) Bind(variables map[string]any, dst any) []FieldError {
	if variables == nil {
		variables = map[string]any{}
	}
	raw, err := json.Marshal(variables)
	if err != nil {
		return []FieldError{{Field: "variables", Message: "invalid variables"}}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field != "" {
			return []FieldError{{Field: typeErr.Field, Message: "is not a valid value"}}
		}
		return []FieldError{{Field: "variables", Message: "invalid variables"}}
	}
	return nil
}

// Validate runs the struct tags on bound args, one entry per offending
// field.
func (va *Validator) Validate(args any) []FieldError {
	err := va.v.Struct(args)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "variables", Message: "invalid variables"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
