package main

import (
	"testing"

	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/matryer/is"
)

func TestParseWriteArgs(t *testing.T) {
	is := is.New(t)

	input, declared, err := parseWriteArgs("New task", "High", `{"Service": ["API", "Backend"], "Name": "ignored"}`, `{"Service": "multi_select"}`)
	is.NoErr(err)

	is.Equal(input["Name"], "New task") // explicit name wins over properties
	is.Equal(input["Priority"], "High")
	is.Equal(input["Service"], []any{"API", "Backend"})
	is.Equal(declared, map[string]properties.Kind{"Service": properties.KindMultiSelect})
}

func TestParseWriteArgsWithoutOptionals(t *testing.T) {
	is := is.New(t)

	input, declared, err := parseWriteArgs("New task", "", "", "")
	is.NoErr(err)
	is.Equal(input, map[string]any{"Name": "New task"})
	is.Equal(len(declared), 0)
}

func TestParseWriteArgsRejectsBadInput(t *testing.T) {
	is := is.New(t)

	_, _, err := parseWriteArgs("x", "", "not json", "")
	is.True(err != nil)

	_, _, err = parseWriteArgs("x", "", "", `{"Total": "formula"}`)
	is.True(err != nil) // formula can not be declared
}

func TestParseConditions(t *testing.T) {
	is := is.New(t)

	conditions, err := parseConditions([]string{"Priority=High", "Done=false", "Estimate=3", "Note=a=b"})
	is.NoErr(err)
	is.Equal(conditions["Priority"], "High")
	is.Equal(conditions["Done"], false)
	is.Equal(conditions["Estimate"], 3.0)
	is.Equal(conditions["Note"], "a=b")

	_, err = parseConditions([]string{"Priority"})
	is.True(err != nil)
}

func TestArgAt(t *testing.T) {
	is := is.New(t)

	is.Equal(argAt([]string{"a", "b"}, 1), "b")
	is.Equal(argAt([]string{"a", "b"}, 2), "")
}
