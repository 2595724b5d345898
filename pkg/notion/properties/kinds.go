package properties

import "strings"

// Kind is the type tag of a database property as reported by the API.
// Kinds outside the supported set are kept verbatim and reported as
// unsupported by the codec.
type Kind string

const (
	KindTitle       Kind = "title"
	KindRichText    Kind = "rich_text"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindDate        Kind = "date"
	KindCheckbox    Kind = "checkbox"
	KindNumber      Kind = "number"
	KindURL         Kind = "url"
	KindEmail       Kind = "email"
	KindPhoneNumber Kind = "phone_number"
	KindPeople      Kind = "people"
)

var supportedKinds = map[Kind]bool{
	KindTitle:       true,
	KindRichText:    true,
	KindSelect:      true,
	KindMultiSelect: true,
	KindDate:        true,
	KindCheckbox:    true,
	KindNumber:      true,
	KindURL:         true,
	KindEmail:       true,
	KindPhoneNumber: true,
	KindPeople:      true,
}

// ParseKind never fails. Unknown names become unsupported kinds.
func ParseKind(name string) Kind {
	return Kind(strings.TrimSpace(name))
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) Supported() bool {
	return supportedKinds[k]
}

// HasOptions reports whether definitions of this kind carry an option set
func (k Kind) HasOptions() bool {
	return k == KindSelect || k == KindMultiSelect
}

// Writable reports whether values of this kind can be encoded for create and update requests
func (k Kind) Writable() bool {
	return k.Supported() && k != KindPeople
}
