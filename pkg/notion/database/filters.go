package database

import (
	"time"

	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
)

func filterFor(current properties.Schema, name string, value any) notion.Filter {
	var kind properties.Kind

	if def, ok := current.Lookup(name); ok && def.Kind.Supported() {
		kind = def.Kind
	} else {
		kind = kindOf(value)
	}

	v := properties.ValueOf(value)

	switch kind {
	case properties.KindCheckbox:
		b, _ := properties.Encode(properties.KindCheckbox, v)
		return notion.PropertyFilter(name, kind, "equals", b.(properties.CheckboxProperty).Checkbox)
	case properties.KindNumber:
		if n, err := properties.Encode(properties.KindNumber, v); err == nil {
			if f := n.(properties.NumberProperty).Number; f != nil {
				return notion.PropertyFilter(name, kind, "equals", *f)
			}
		}
		return notion.PropertyFilter(name, kind, "is_empty", true)
	case properties.KindDate:
		if d, ok := v.(properties.Date); ok {
			return notion.PropertyFilter(name, kind, "equals", d.Start)
		}
		return notion.PropertyFilter(name, kind, "equals", v.String())
	case properties.KindMultiSelect, properties.KindPeople:
		first := ""
		if list, ok := v.(properties.StringList); ok {
			if len(list) > 0 {
				first = list[0]
			}
		} else {
			first = v.String()
		}
		return notion.PropertyFilter(name, kind, "contains", first)
	}

	return notion.PropertyFilter(name, kind, "equals", v.String())
}

// kindOf picks a filter kind for a property that is missing from the schema
func kindOf(value any) properties.Kind {
	switch value.(type) {
	case bool:
		return properties.KindCheckbox
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return properties.KindNumber
	case time.Time, *time.Time:
		return properties.KindDate
	case []string, []any:
		return properties.KindMultiSelect
	}
	return properties.KindRichText
}
