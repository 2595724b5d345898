package properties

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/notion-sugar/pkg/notion/errors"
)

// FieldError reports why a single field was left out of an encoded property set
type FieldError struct {
	Name string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Name, e.Err.Error())
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Encode converts a value into the wire property of the given kind without
// checking option membership. Unset values and empty text encode to the
// cleared form of the kind.
func Encode(kind Kind, value Value) (Property, error) {
	if value == nil {
		value = Unset{}
	}

	if t, ok := value.(Text); ok && t == "" {
		value = Unset{}
	}

	_, unset := value.(Unset)

	switch kind {
	case KindTitle:
		if unset {
			return TitleProperty{Title: []RichText{}}, nil
		}
		return TitleProperty{Title: NewRichText(value.String())}, nil
	case KindRichText:
		if unset {
			return RichTextProperty{RichText: []RichText{}}, nil
		}
		return RichTextProperty{RichText: NewRichText(value.String())}, nil
	case KindSelect:
		if unset {
			return SelectProperty{}, nil
		}
		return SelectProperty{Select: &Option{Name: value.String()}}, nil
	case KindMultiSelect:
		options := []Option{}
		if list, ok := value.(StringList); ok {
			for _, name := range list {
				options = append(options, Option{Name: name})
			}
		}
		return MultiSelectProperty{MultiSelect: options}, nil
	case KindDate:
		if unset {
			return DateProperty{}, nil
		}
		dr, err := toDateRange(value)
		if err != nil {
			return nil, err
		}
		return DateProperty{Date: dr}, nil
	case KindCheckbox:
		return CheckboxProperty{Checkbox: toBool(value)}, nil
	case KindNumber:
		if unset {
			return NumberProperty{}, nil
		}
		f, err := toFloat(value)
		if err != nil {
			return nil, err
		}
		return NumberProperty{Number: &f}, nil
	case KindURL:
		return URLProperty{URL: toStringPtr(value)}, nil
	case KindEmail:
		return EmailProperty{Email: toStringPtr(value)}, nil
	case KindPhoneNumber:
		return PhoneNumberProperty{PhoneNumber: toStringPtr(value)}, nil
	case KindPeople:
		return nil, errors.New(errors.ErrReadOnly, "people properties can not be written")
	}

	return nil, errors.New(errors.ErrUnsupportedKind, fmt.Sprintf("property kind %q is not supported", kind))
}

// Encode converts a value into a wire property, validating select and
// multi_select values against the option set of the definition. A select
// value outside the options yields no property. Invalid multi_select values
// are removed and the remaining property is returned along with the error.
func (d Definition) Encode(value Value) (Property, error) {
	prop, err := Encode(d.Kind, value)
	if err != nil || len(d.Options) == 0 {
		return prop, err
	}

	switch p := prop.(type) {
	case SelectProperty:
		if p.Select != nil && !d.HasOption(p.Select.Name) {
			return nil, errors.New(errors.ErrInvalidOption,
				fmt.Sprintf("%q is not a valid option (valid options: %s)", p.Select.Name, strings.Join(d.Options, ", ")),
			)
		}
	case MultiSelectProperty:
		invalid := []string{}
		valid := []Option{}
		for _, o := range p.MultiSelect {
			if d.HasOption(o.Name) {
				valid = append(valid, o)
			} else {
				invalid = append(invalid, o.Name)
			}
		}
		if len(invalid) > 0 {
			return MultiSelectProperty{MultiSelect: valid}, errors.New(errors.ErrInvalidOption,
				fmt.Sprintf("invalid options %s removed (valid options: %s)", strings.Join(invalid, ", "), strings.Join(d.Options, ", ")),
			)
		}
	}

	return prop, nil
}

// Decode converts a wire property into a native value. The property's own
// type takes precedence over kind, and option membership is never checked.
// Absent or empty values decode to the placeholder.
func Decode(kind Kind, prop Property) Value {
	if prop == nil {
		return placeholderFor(kind)
	}

	switch p := prop.(type) {
	case TitleProperty:
		return textOrPlaceholder(PlainText(p.Title))
	case RichTextProperty:
		return textOrPlaceholder(PlainText(p.RichText))
	case SelectProperty:
		if p.Select == nil {
			return Text(Placeholder)
		}
		return textOrPlaceholder(p.Select.Name)
	case MultiSelectProperty:
		if len(p.MultiSelect) == 0 {
			return StringList{Placeholder}
		}
		names := make(StringList, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return names
	case DateProperty:
		if p.Date == nil || p.Date.Start == "" {
			return Text(Placeholder)
		}
		d := Date{Start: p.Date.Start}
		if p.Date.End != nil {
			d.End = *p.Date.End
		}
		return d
	case CheckboxProperty:
		return Bool(p.Checkbox)
	case NumberProperty:
		if p.Number == nil {
			return Text(Placeholder)
		}
		return Number(*p.Number)
	case URLProperty:
		return stringPtrOrPlaceholder(p.URL)
	case EmailProperty:
		return stringPtrOrPlaceholder(p.Email)
	case PhoneNumberProperty:
		return stringPtrOrPlaceholder(p.PhoneNumber)
	case PeopleProperty:
		if len(p.People) == 0 {
			return StringList{Placeholder}
		}
		names := make(StringList, 0, len(p.People))
		for _, u := range p.People {
			if u.Name != "" {
				names = append(names, u.Name)
			} else {
				names = append(names, u.ID)
			}
		}
		return names
	}

	return Text(Placeholder)
}

// EncodeAll encodes every field in input using the schema. Fields are
// encoded independently and every failure is returned as a *FieldError.
func EncodeAll(schema Schema, input map[string]any) (Properties, []error) {
	props := Properties{}
	errs := []error{}

	names := make([]string, 0, len(input))
	for name := range input {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		def, ok := schema.Lookup(name)
		if !ok {
			errs = append(errs, &FieldError{Name: name, Err: errors.New(errors.ErrUnsupportedKind, "property is not part of the schema")})
			continue
		}

		prop, err := def.Encode(ValueOf(input[name]))
		if prop != nil {
			props[name] = prop
		}
		if err != nil {
			errs = append(errs, &FieldError{Name: name, Err: err})
		}
	}

	return props, errs
}

// DecodeAll decodes props into a value per schema entry. Properties missing
// from props decode to the placeholder.
func DecodeAll(schema Schema, props Properties) map[string]Value {
	values := make(map[string]Value, len(schema))
	for name, def := range schema {
		values[name] = Decode(def.Kind, props[name])
	}
	return values
}

func placeholderFor(kind Kind) Value {
	switch kind {
	case KindMultiSelect, KindPeople:
		return StringList{Placeholder}
	case KindCheckbox:
		return Bool(false)
	}
	return Text(Placeholder)
}

func textOrPlaceholder(s string) Value {
	if s == "" {
		return Text(Placeholder)
	}
	return Text(s)
}

func stringPtrOrPlaceholder(s *string) Value {
	if s == nil {
		return Text(Placeholder)
	}
	return textOrPlaceholder(*s)
}

func toStringPtr(v Value) *string {
	if _, ok := v.(Unset); ok {
		return nil
	}
	s := v.String()
	return &s
}

func toBool(v Value) bool {
	switch typed := v.(type) {
	case Bool:
		return bool(typed)
	case Number:
		return typed != 0
	case StringList:
		return len(typed) > 0
	case Date:
		return typed.Start != ""
	case Text:
		switch strings.ToLower(strings.TrimSpace(string(typed))) {
		case "", "false", "no", "0":
			return false
		}
		return true
	}
	return false
}

// toFloat only returns finite numbers, NaN and infinities can not be sent to the API
func toFloat(v Value) (float64, error) {
	switch typed := v.(type) {
	case Number:
		if isFinite(float64(typed)) {
			return float64(typed), nil
		}
	case Bool:
		if typed {
			return 1, nil
		}
		return 0, nil
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(typed)), 64)
		if err == nil && isFinite(f) {
			return f, nil
		}
	}
	return 0, errors.New(errors.ErrConversion, fmt.Sprintf("%q is not a number", v.String()))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func toDateRange(v Value) (*DateRange, error) {
	var start, end string

	switch typed := v.(type) {
	case Date:
		start, end = typed.Start, typed.End
	case Text:
		start = strings.TrimSpace(string(typed))
	default:
		return nil, errors.New(errors.ErrConversion, fmt.Sprintf("%q is not a date", v.String()))
	}

	if !isDate(start) || (end != "" && !isDate(end)) {
		return nil, errors.New(errors.ErrConversion, fmt.Sprintf("%q is not an ISO-8601 date", v.String()))
	}

	dr := &DateRange{Start: start}
	if end != "" {
		dr.End = &end
	}
	return dr, nil
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
