package properties

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Property is the wire representation of a single page property value
type Property interface {
	Kind() Kind
}

// Properties maps property names to wire values, as sent in create and update requests
type Properties map[string]Property

type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
	Href      *string      `json:"href,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type DateRange struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

type User struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
}

// NewRichText wraps content in a single text segment
func NewRichText(content string) []RichText {
	return []RichText{{Text: &TextContent{Content: content}}}
}

// PlainText concatenates the text of all segments
func PlainText(segments []RichText) string {
	sb := strings.Builder{}
	for _, segment := range segments {
		if segment.PlainText != "" {
			sb.WriteString(segment.PlainText)
		} else if segment.Text != nil {
			sb.WriteString(segment.Text.Content)
		}
	}
	return sb.String()
}

type TitleProperty struct {
	Title []RichText `json:"title"`
}

type RichTextProperty struct {
	RichText []RichText `json:"rich_text"`
}

type SelectProperty struct {
	Select *Option `json:"select"`
}

type MultiSelectProperty struct {
	MultiSelect []Option `json:"multi_select"`
}

type DateProperty struct {
	Date *DateRange `json:"date"`
}

type CheckboxProperty struct {
	Checkbox bool `json:"checkbox"`
}

type NumberProperty struct {
	Number *float64 `json:"number"`
}

type URLProperty struct {
	URL *string `json:"url"`
}

type EmailProperty struct {
	Email *string `json:"email"`
}

type PhoneNumberProperty struct {
	PhoneNumber *string `json:"phone_number"`
}

type PeopleProperty struct {
	People []User `json:"people"`
}

// UnsupportedProperty keeps the raw payload of a property kind the codec does not implement
type UnsupportedProperty struct {
	Type Kind
	Raw  json.RawMessage
}

func (TitleProperty) Kind() Kind         { return KindTitle }
func (RichTextProperty) Kind() Kind      { return KindRichText }
func (SelectProperty) Kind() Kind        { return KindSelect }
func (MultiSelectProperty) Kind() Kind   { return KindMultiSelect }
func (DateProperty) Kind() Kind          { return KindDate }
func (CheckboxProperty) Kind() Kind      { return KindCheckbox }
func (NumberProperty) Kind() Kind        { return KindNumber }
func (URLProperty) Kind() Kind           { return KindURL }
func (EmailProperty) Kind() Kind         { return KindEmail }
func (PhoneNumberProperty) Kind() Kind   { return KindPhoneNumber }
func (PeopleProperty) Kind() Kind        { return KindPeople }
func (p UnsupportedProperty) Kind() Kind { return p.Type }

func (p UnsupportedProperty) MarshalJSON() ([]byte, error) {
	if len(p.Raw) == 0 {
		return []byte("null"), nil
	}
	return p.Raw, nil
}

// UnmarshalProperty decodes a property value object, dispatching on its "type" member
func UnmarshalProperty(data []byte) (Property, error) {
	header := struct {
		Type string `json:"type"`
	}{}

	err := json.Unmarshal(data, &header)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal property: %w", err)
	}

	if header.Type == "" {
		return nil, fmt.Errorf("property objects without a type attribute are not supported")
	}

	switch kind := ParseKind(header.Type); kind {
	case KindTitle:
		return unmarshalAs[TitleProperty](data)
	case KindRichText:
		return unmarshalAs[RichTextProperty](data)
	case KindSelect:
		return unmarshalAs[SelectProperty](data)
	case KindMultiSelect:
		return unmarshalAs[MultiSelectProperty](data)
	case KindDate:
		return unmarshalAs[DateProperty](data)
	case KindCheckbox:
		return unmarshalAs[CheckboxProperty](data)
	case KindNumber:
		return unmarshalAs[NumberProperty](data)
	case KindURL:
		return unmarshalAs[URLProperty](data)
	case KindEmail:
		return unmarshalAs[EmailProperty](data)
	case KindPhoneNumber:
		return unmarshalAs[PhoneNumberProperty](data)
	case KindPeople:
		return unmarshalAs[PeopleProperty](data)
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return UnsupportedProperty{Type: kind, Raw: raw}, nil
	}
}

func unmarshalAs[T Property](data []byte) (Property, error) {
	var p T
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s property: %w", p.Kind(), err)
	}
	return p, nil
}

// UnmarshalJSON decodes a property map as found in page objects
func (p *Properties) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	props := make(Properties, len(raw))
	for name, body := range raw {
		prop, err := UnmarshalProperty(body)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		props[name] = prop
	}

	*p = props
	return nil
}
