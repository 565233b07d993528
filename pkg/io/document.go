package io

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

type document struct {
	Vertices []vertex          `json:"vertices" toml:"vertices" validate:"dive"`
	Edges    []edge            `json:"edges" toml:"edges" validate:"dive"`
	Colours  map[string]string `json:"colours" toml:"colours" validate:"dive,keys,required,endkeys,oneof=black white"`
}

type vertex struct {
	ID string   `json:"id" toml:"id" validate:"required"`
	X  *float64 `json:"x,omitempty" toml:"x,omitempty" validate:"required_with=Y"`
	Y  *float64 `json:"y,omitempty" toml:"y,omitempty" validate:"required_with=X"`
}

type edge struct {
	ID     string `json:"id" toml:"id" validate:"required"`
	Source ref    `json:"source" toml:"source"`
	Target ref    `json:"target" toml:"target"`
}

type ref struct {
	ID string `json:"id" toml:"id" validate:"required"`
}

// MarshalTOML writes an endpoint as an inline table, so each edge stays one
// [[edges]] block instead of growing [edges.source] sub-tables.
func (r ref) MarshalTOML() ([]byte, error) {
	return []byte("{ id = " + quoteTOML(r.ID) + " }"), nil
}

// quoteTOML returns s as a TOML basic string.
func quoteTOML(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\u%04X", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(checkCoordinates, vertex{})
	return v
}

// checkCoordinates rejects NaN and infinite coordinates. TOML can spell
// them, JSON cannot encode them, and NaN never equals itself.
func checkCoordinates(sl validator.StructLevel) {
	v := sl.Current().Interface().(vertex)
	if v.X != nil && !finite(*v.X) {
		sl.ReportError(v.X, "X", "X", "finite", "")
	}
	if v.Y != nil && !finite(*v.Y) {
		sl.ReportError(v.Y, "Y", "Y", "finite", "")
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// check validates the document shape and joins every field error into one.
func (d *document) check() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "document.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, fe.Param())
	case "finite":
		return fmt.Sprintf("%s must be a finite number", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %v)", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
