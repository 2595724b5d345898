package schema

import (
	"context"
	"fmt"

	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// DatabaseClient is the part of the API client the registry depends on
type DatabaseClient interface {
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	UpdateDatabase(ctx context.Context, databaseID string, definitions map[string]properties.Kind) (*notion.Database, error)
}

// Registry caches the property schema of a single database. It is owned by
// one session and must not be shared between concurrent callers.
type Registry struct {
	client     DatabaseClient
	databaseID string
	schema     properties.Schema
	loaded     bool
}

func NewRegistry(client DatabaseClient, databaseID string) *Registry {
	return &Registry{
		client:     client,
		databaseID: databaseID,
		schema:     properties.Schema{},
	}
}

func (r *Registry) DatabaseID() string {
	return r.databaseID
}

// Loaded reports whether the last Fetch succeeded
func (r *Registry) Loaded() bool {
	return r.loaded
}

// Schema returns the cached schema
func (r *Registry) Schema() properties.Schema {
	return r.schema
}

// Fetch replaces the cached schema with the one described by the API. On
// failure the cache is emptied, a warning is logged and an error wrapping
// ErrSchemaFetch is returned. The registry remains usable.
func (r *Registry) Fetch(ctx context.Context) (properties.Schema, error) {
	db, err := r.client.RetrieveDatabase(ctx, r.databaseID)
	if err != nil {
		r.schema = properties.Schema{}
		r.loaded = false

		log := logging.GetFromContext(ctx)
		log.Warn("failed to fetch database schema", "database_id", r.databaseID, "err", err.Error())

		return r.schema, fmt.Errorf("%w: %w", errors.ErrSchemaFetch, err)
	}

	r.schema = db.Schema()
	r.loaded = true
	return r.schema, nil
}

// ApplyPatch adds the given definitions to the remote schema in one
// request. On success they are merged into the cache without a refetch,
// so select and multi_select definitions added this way carry no options
// until the next Fetch.
func (r *Registry) ApplyPatch(ctx context.Context, definitions map[string]properties.Kind) error {
	if len(definitions) == 0 {
		return nil
	}

	_, err := r.client.UpdateDatabase(ctx, r.databaseID, definitions)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSchemaPatch, err)
	}

	r.schema = r.schema.With(definitions)
	return nil
}
