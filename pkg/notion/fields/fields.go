package fields

import (
	goerrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
)

// Field describes an expected database property and how input for it is validated
type Field struct {
	Name    string
	Kind    properties.Kind
	Options []string

	required     bool
	defaultValue any
}

func New(name string, kind properties.Kind, options ...string) Field {
	return Field{Name: name, Kind: kind, Options: options}
}

func Title(name string) Field {
	return New(name, properties.KindTitle)
}

func Text(name string) Field {
	return New(name, properties.KindRichText)
}

func Select(name string, options ...string) Field {
	return New(name, properties.KindSelect, options...)
}

func MultiSelect(name string, options ...string) Field {
	return New(name, properties.KindMultiSelect, options...)
}

func Date(name string) Field {
	return New(name, properties.KindDate)
}

// Person fields are read only and can not be written through the codec
func Person(name string) Field {
	return New(name, properties.KindPeople)
}

func Number(name string) Field {
	return New(name, properties.KindNumber)
}

func Checkbox(name string) Field {
	return New(name, properties.KindCheckbox)
}

func URL(name string) Field {
	return New(name, properties.KindURL)
}

func Email(name string) Field {
	return New(name, properties.KindEmail)
}

func PhoneNumber(name string) Field {
	return New(name, properties.KindPhoneNumber)
}

// Required returns a copy of the field that must be present in validated input
func (f Field) Required() Field {
	f.required = true
	return f
}

// Default returns a copy of the field that takes v when absent from validated input
func (f Field) Default(v any) Field {
	f.defaultValue = v
	return f
}

func (f Field) IsRequired() bool {
	return f.required
}

func (f Field) DefaultValue() any {
	return f.defaultValue
}

func (f Field) validate(value any) error {
	if len(f.Options) == 0 || !f.Kind.HasOptions() {
		return nil
	}

	v := properties.ValueOf(value)

	var candidates []string
	if list, ok := v.(properties.StringList); ok {
		candidates = list
	} else {
		candidates = []string{v.String()}
	}

	for _, c := range candidates {
		if !slices.Contains(f.Options, c) {
			return errors.NewValidationError(
				fmt.Sprintf("invalid value %q for %s, must be one of: %s", c, f.Name, strings.Join(f.Options, ", ")),
			)
		}
	}

	return nil
}

// Set is an ordered list of field descriptors
type Set []Field

func NewSet(fields ...Field) Set {
	return Set(fields)
}

// Validate checks input against the descriptors and returns a copy with
// defaults applied. Every violation is reported and wraps ErrValidation.
func (s Set) Validate(input map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(input)+len(s))
	for k, v := range input {
		result[k] = v
	}

	errs := []error{}

	for _, f := range s {
		value, ok := result[f.Name]
		if !ok || value == nil {
			if f.defaultValue != nil {
				result[f.Name] = f.defaultValue
				continue
			}
			if f.required {
				errs = append(errs, errors.NewValidationError(fmt.Sprintf("required field %s is not set", f.Name)))
			}
			continue
		}

		if err := f.validate(value); err != nil {
			errs = append(errs, err)
		}
	}

	return result, goerrors.Join(errs...)
}

// Partial returns a copy of the set for validating partial updates. No
// field is required and no defaults are applied.
func (s Set) Partial() Set {
	partial := make(Set, 0, len(s))
	for _, f := range s {
		f.required = false
		f.defaultValue = nil
		partial = append(partial, f)
	}
	return partial
}

// DeclaredTypes maps each field name to its kind, for use when new
// properties are added to a database
func (s Set) DeclaredTypes() map[string]properties.Kind {
	declared := make(map[string]properties.Kind, len(s))
	for _, f := range s {
		declared[f.Name] = f.Kind
	}
	return declared
}

func (s Set) Lookup(name string) (Field, bool) {
	idx := slices.IndexFunc(s, func(f Field) bool { return f.Name == name })
	if idx < 0 {
		return Field{}, false
	}
	return s[idx], true
}
