package properties

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Placeholder is the display value used when a property is absent or empty
const Placeholder string = "N/A"

// Value is a native property value. The concrete types are Text, Bool,
// Number, StringList, Date and Unset.
type Value interface {
	fmt.Stringer
	isValue()
}

type Text string

type Bool bool

type Number float64

type StringList []string

// Date holds ISO-8601 dates or date times. End is empty for single dates.
type Date struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// Unset marks a property that should be cleared on write
type Unset struct{}

func (Text) isValue()       {}
func (Bool) isValue()       {}
func (Number) isValue()     {}
func (StringList) isValue() {}
func (Date) isValue()       {}
func (Unset) isValue()      {}

func (t Text) String() string {
	return string(t)
}

func (b Bool) String() string {
	if b {
		return "yes"
	}
	return "no"
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (l StringList) String() string {
	return strings.Join(l, ", ")
}

func (d Date) String() string {
	if d.End != "" {
		return d.Start + " -> " + d.End
	}
	return d.Start
}

func (Unset) String() string {
	return ""
}

// NewDate formats t as a date when it has no clock component and as an RFC 3339 timestamp otherwise
func NewDate(t time.Time) Date {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return Date{Start: t.Format(time.DateOnly)}
	}
	return Date{Start: t.Format(time.RFC3339)}
}

// ValueOf tags a raw Go value based on its runtime type. Values that match
// no tag are stringified.
func ValueOf(v any) Value {
	switch typed := v.(type) {
	case nil:
		return Unset{}
	case Value:
		return typed
	case string:
		return Text(typed)
	case bool:
		return Bool(typed)
	case float64:
		return Number(typed)
	case float32:
		return Number(typed)
	case int:
		return Number(typed)
	case int8:
		return Number(typed)
	case int16:
		return Number(typed)
	case int32:
		return Number(typed)
	case int64:
		return Number(typed)
	case uint:
		return Number(typed)
	case uint8:
		return Number(typed)
	case uint16:
		return Number(typed)
	case uint32:
		return Number(typed)
	case uint64:
		return Number(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return Number(f)
		}
		return Text(typed.String())
	case []string:
		return StringList(append([]string{}, typed...))
	case []any:
		list := make(StringList, 0, len(typed))
		for _, item := range typed {
			list = append(list, stringify(item))
		}
		return list
	case time.Time:
		return NewDate(typed)
	case *time.Time:
		if typed == nil {
			return Unset{}
		}
		return NewDate(*typed)
	case fmt.Stringer:
		return Text(typed.String())
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		list := make(StringList, 0, rv.Len())
		for i := range rv.Len() {
			list = append(list, stringify(rv.Index(i).Interface()))
		}
		return list
	}

	return Text(fmt.Sprint(v))
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ValueOf(v).String()
}

// NativeOf returns the plain Go representation of a value, suitable for JSON output
func NativeOf(v Value) any {
	switch typed := v.(type) {
	case Text:
		return string(typed)
	case Bool:
		return bool(typed)
	case Number:
		return float64(typed)
	case StringList:
		return []string(typed)
	case Date:
		return typed
	default:
		return nil
	}
}
