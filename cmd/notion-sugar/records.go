package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/diwise/notion-sugar/internal/pkg/application/sugar"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [property=value...]",
	Short: "List the records of a database",
	Long: `List prints every record of the database as json.

Conditions are given as property=value pairs and are combined with and.
Values are parsed as json when possible.

Example:
  notion-sugar list
  notion-sugar list Priority=High Done=false`,
	RunE: runList,
}

var addCmd = &cobra.Command{
	Use:   "add <name> [priority] [properties] [property-types]",
	Short: "Add a record",
	Long: `Add creates a new record with the given name and optional priority.

Additional properties and the types of properties that do not yet exist
in the database are given as json objects.

Example:
  notion-sugar add "New task" High '{"Service": ["API", "Backend"]}' '{"Service": "multi_select"}'`,
	Args: cobra.RangeArgs(1, 4),
	RunE: runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <name> [properties] [property-types]",
	Short: "Update a record",
	Long: `Update renames an existing record and writes any additional properties.

Example:
  notion-sugar update 59833787-2cf9-4fdf-8782-e53db20768a5 "Updated task" '{"Service": ["DevOps"]}' '{"Service": "multi_select"}'`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete (archive) a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runList(cmd *cobra.Command, args []string) error {
	conditions, err := parseConditions(args)
	if err != nil {
		return err
	}

	records, err := app.ListRecords(cmd.Context(), databaseName, conditions)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	output, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	input, declared, err := parseWriteArgs(args[0], argAt(args, 1), argAt(args, 2), argAt(args, 3))
	if err != nil {
		return err
	}

	result, err := app.AddRecord(cmd.Context(), databaseName, input, declared)
	if err != nil {
		return fmt.Errorf("add record: %w", err)
	}

	printWarnings(cmd, result)
	fmt.Fprintf(cmd.OutOrStdout(), "Added record: %s\n", result.Record.ID)

	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	input, declared, err := parseWriteArgs(args[1], "", argAt(args, 2), argAt(args, 3))
	if err != nil {
		return err
	}

	result, err := app.UpdateRecord(cmd.Context(), databaseName, args[0], input, declared)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	printWarnings(cmd, result)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated record: %s\n", result.Record.ID)

	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	err := app.DeleteRecord(cmd.Context(), databaseName, args[0])
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted record: %s\n", args[0])
	return nil
}

func printWarnings(cmd *cobra.Command, result *sugar.WriteResult) {
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Error())
	}
}

func argAt(args []string, idx int) string {
	if idx < len(args) {
		return args[idx]
	}
	return ""
}

// parseWriteArgs builds the record input from the positional arguments of
// add and update. Explicit name and priority take precedence over properties.
func parseWriteArgs(name, priority, props, types string) (map[string]any, map[string]properties.Kind, error) {
	input := map[string]any{}

	if props != "" {
		parsed := map[string]any{}
		if err := json.Unmarshal([]byte(props), &parsed); err != nil {
			return nil, nil, fmt.Errorf("properties must be a json object: %w", err)
		}
		maps.Copy(input, parsed)
	}

	input["Name"] = name
	if priority != "" {
		input["Priority"] = priority
	}

	declared := map[string]properties.Kind{}
	if types != "" {
		if err := json.Unmarshal([]byte(types), &declared); err != nil {
			return nil, nil, fmt.Errorf("property types must be a json object: %w", err)
		}
		for name, kind := range declared {
			if !kind.Supported() {
				return nil, nil, fmt.Errorf("property %s has unsupported type %q", name, kind)
			}
		}
	}

	return input, declared, nil
}

func parseConditions(args []string) (map[string]any, error) {
	conditions := map[string]any{}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid condition %q (expected property=value)", arg)
		}

		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		conditions[key] = parsed
	}

	return conditions, nil
}
