package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/value"
)

// FieldProblem is a rejected field value.
type FieldProblem struct {
	Field  string
	Reason string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Form     string
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Reason
	}
	return fmt.Sprintf("form %q: %s", e.Form, strings.Join(parts, "; "))
}

// Is matches registry.ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == registry.ErrInvalidInput
}

// coerce converts a host-supplied value to the field's type. Strings are
// accepted for every type so that line-oriented hosts can submit raw text.
func (f Field) coerce(raw any) (value.Value, error) {
	if raw == nil {
		return value.Null(), nil
	}
	if v, ok := raw.(value.Value); ok {
		raw = v.Go()
		if raw == nil {
			return value.Null(), nil
		}
	}

	switch f.Type {
	case TypeNumber:
		switch x := raw.(type) {
		case string:
			s := strings.TrimSpace(x)
			if s == "" {
				return value.Null(), nil
			}
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return value.Value{}, fmt.Errorf("%q is not a number", x)
			}
			return value.Number(n), nil
		default:
			v, err := value.FromGo(raw)
			if err != nil || v.Kind() != value.KindNumber {
				return value.Value{}, fmt.Errorf("expected a number, got %v", raw)
			}
			return v, nil
		}

	case TypeCheckbox:
		switch x := raw.(type) {
		case bool:
			return value.Bool(x), nil
		case string:
			switch strings.ToLower(strings.TrimSpace(x)) {
			case "true", "yes", "on", "1", "x":
				return value.Bool(true), nil
			case "false", "no", "off", "0", "":
				return value.Bool(false), nil
			}
		}
		return value.Value{}, fmt.Errorf("expected true or false, got %v", raw)

	default:
		var s string
		switch x := raw.(type) {
		case string:
			s = x
		case bool, int, int64, float64:
			v, _ := value.FromGo(x)
			s = v.Text()
		default:
			return value.Value{}, fmt.Errorf("expected text, got %T", raw)
		}
		if s == "" {
			return value.Null(), nil
		}
		if f.Type == TypeSelect && !contains(f.Options, s) {
			return value.Value{}, fmt.Errorf("%q is not one of %s", s, strings.Join(f.Options, ", "))
		}
		return value.String(s), nil
	}
}

// check applies the required flag and numeric bounds.
func (f Field) check(v value.Value) error {
	if v.IsNull() {
		if f.Required {
			return errors.New("required")
		}
		return nil
	}
	return f.checkRange(v)
}

func (f Field) checkRange(v value.Value) error {
	n, ok := v.AsNumber()
	if !ok {
		return nil
	}
	if f.Min != nil && n < *f.Min {
		return fmt.Errorf("must be at least %s", value.FormatNumber(*f.Min))
	}
	if f.Max != nil && n > *f.Max {
		return fmt.Errorf("must be at most %s", value.FormatNumber(*f.Max))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
