package notion

import (
	"encoding/json"
	"errors"
	"testing"

	notionerrors "github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/matryer/is"
)

const databaseJSON string = `{
	"object": "database",
	"id": "8e2c2b76-9e1e-4f0b-a5b1-3f3d3b0c1a11",
	"title": [{"type":"text","text":{"content":"Tasks"},"plain_text":"Tasks"}],
	"properties": {
		"Name": {"id":"title","name":"Name","type":"title","title":{}},
		"Priority": {"id":"p1","name":"Priority","type":"select","select":{"options":[{"id":"o1","name":"Low","color":"gray"},{"id":"o2","name":"High","color":"red"}]}},
		"Tags": {"id":"t1","name":"Tags","type":"multi_select","multi_select":{"options":[]}},
		"Score": {"id":"f1","name":"Score","type":"formula","formula":{"expression":"1"}}
	}
}`

func TestDatabaseSchema(t *testing.T) {
	is := is.New(t)

	db, err := NewDatabaseFromJSON([]byte(databaseJSON))
	is.NoErr(err)

	schema := db.Schema()
	is.Equal(len(schema), 4)
	is.Equal(schema["Name"].Kind, properties.KindTitle)
	is.Equal(schema["Priority"].Options, []string{"Low", "High"})
	is.Equal(len(schema["Tags"].Options), 0)
	is.True(!schema["Score"].Kind.Supported())

	title, ok := schema.TitleProperty()
	is.True(ok)
	is.Equal(title, "Name")
}

func TestQueryResultWithNullCursor(t *testing.T) {
	is := is.New(t)

	qr, err := NewQueryResultFromJSON([]byte(`{"object":"list","results":[{"object":"page","id":"p1","properties":{"Done":{"id":"d","type":"checkbox","checkbox":true}}}],"has_more":false,"next_cursor":null}`))
	is.NoErr(err)

	is.Equal(len(qr.Results), 1)
	is.True(qr.NextCursor == nil)
	is.Equal(qr.Results[0].Properties["Done"], properties.CheckboxProperty{Checkbox: true})
}

func TestQueryBodyOmitsEmptyMembers(t *testing.T) {
	is := is.New(t)

	b, err := json.Marshal(Query{
		Filter: And(PropertyFilter("Done", properties.KindCheckbox, "equals", true)),
		Sorts:  []Sort{{Property: "Name", Direction: Descending}},
	})
	is.NoErr(err)
	is.Equal(string(b), `{"filter":{"checkbox":{"equals":true},"property":"Done"},"sorts":[{"property":"Name","direction":"descending"}]}`)
}

func TestNormalizeID(t *testing.T) {
	is := is.New(t)

	expected := "1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d"

	for _, input := range []string{
		"1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d",
		"1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d",
		"https://www.notion.so/workspace/1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d?v=0123",
		"https://www.notion.so/workspace/My-Tasks-1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d",
	} {
		id, err := NormalizeID(input)
		is.NoErr(err)
		is.Equal(id, expected)
	}

	_, err := NormalizeID("not-an-id")
	is.True(errors.Is(err, notionerrors.ErrInvalidID))
}

func TestValidateToken(t *testing.T) {
	is := is.New(t)

	is.NoErr(ValidateToken("ntn_abc"))
	is.NoErr(ValidateToken("secret_abc"))
	is.True(errors.Is(ValidateToken("Bearer abc"), notionerrors.ErrInvalidToken))
}
