package schema

import (
	"context"

	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// Result is the outcome of reconciling a set of input fields with a schema
type Result struct {
	// Properties holds every field that could be encoded
	Properties properties.Properties
	// Added holds the definitions that were added to the remote schema
	Added map[string]properties.Kind
	// Warnings holds one error per dropped field and the patch failure, if any
	Warnings []error
}

// Reconcile makes sure every input field has a definition before encoding
// it. Fields missing from the cached schema get their kind from declared,
// or rich_text if none is declared, and are added to the remote schema in
// a single patch. Every field is encoded whether the patch succeeds or not.
func Reconcile(ctx context.Context, registry *Registry, input map[string]any, declared map[string]properties.Kind) Result {
	log := logging.GetFromContext(ctx)

	result := Result{
		Added:    map[string]properties.Kind{},
		Warnings: []error{},
	}

	current := registry.Schema()
	unknown := map[string]properties.Kind{}

	for name := range input {
		if _, ok := current.Lookup(name); ok {
			continue
		}

		kind, ok := declared[name]
		if !ok || kind == "" {
			kind = properties.KindRichText
		}
		unknown[name] = kind
	}

	if len(unknown) > 0 {
		err := registry.ApplyPatch(ctx, unknown)
		if err != nil {
			log.Warn("failed to add new properties to database", "database_id", registry.DatabaseID(), "err", err.Error())
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Added = unknown
		}
	}

	props, errs := properties.EncodeAll(current.With(unknown), input)
	for _, err := range errs {
		log.Warn("dropping field", "database_id", registry.DatabaseID(), "err", err.Error())
	}

	result.Properties = props
	result.Warnings = append(result.Warnings, errs...)

	return result
}
