package records

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diwise/notion-sugar/internal/pkg/application/sugar"
	"github.com/diwise/notion-sugar/internal/pkg/presentation/api/records/auth"
	"github.com/diwise/notion-sugar/internal/pkg/presentation/api/records/problems"
	"github.com/diwise/notion-sugar/pkg/notion/database"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("notion-sugar/records")

func RegisterHandlers(ctx context.Context, r chi.Router, policies io.Reader, app sugar.NotionSugar) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/api/v0/databases/{database}", func(r chi.Router) {
		r.Use(
			Logger(logging.GetFromContext(ctx)),
			RequiredContentTypes([]string{"application/json"}),
		)

		r.Get("/schema", NewRetrieveSchemaHandler(app, authenticator))

		r.Route("/records", func(r chi.Router) {
			r.Get("/", NewListRecordsHandler(app, authenticator))
			r.Post("/", NewAddRecordHandler(app, authenticator))

			r.Route("/{pageId}", func(r chi.Router) {
				r.Patch("/", NewUpdateRecordHandler(app, authenticator))
				r.Delete("/", NewDeleteRecordHandler(app, authenticator))
			})
		})
	})

	return nil
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequiredContentTypes(validTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			isValidContentType := true

			if len(contentType) > 0 {
				isValidContentType = false

				for _, t := range validTypes {
					if strings.HasPrefix(contentType, t) {
						isValidContentType = true
						break
					}
				}
			}

			if isValidContentType {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			}
		})
	}
}

type SchemaField struct {
	Name    string          `json:"name"`
	Type    properties.Kind `json:"type"`
	Options []string        `json:"options,omitempty"`
}

// WriteRequest is the body of requests that add or update a record. Types
// declares the kind of fields that are not yet part of the database.
type WriteRequest struct {
	Fields map[string]any             `json:"fields"`
	Types  map[string]properties.Kind `json:"types,omitempty"`
}

type WriteResponse struct {
	Record   database.Record `json:"record"`
	Warnings []string        `json:"warnings"`
}

func NewRetrieveSchemaHandler(app sugar.NotionSugar, authenticator auth.Enticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		db := chi.URLParam(r, "database")

		ctx, span := tracer.Start(r.Context(), "retrieve-schema")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = checkAccess(ctx, w, r, authenticator, db); err != nil {
			return
		}

		schema, err := app.Schema(ctx, db)
		if err != nil {
			reportError(ctx, w, "retrieve schema failed", err)
			return
		}

		response := make([]SchemaField, 0, len(schema))
		for _, name := range schema.Names() {
			def := schema[name]
			response = append(response, SchemaField{Name: name, Type: def.Kind, Options: def.Options})
		}

		writeJSON(w, http.StatusOK, response)
	}
}

// NewListRecordsHandler lists the records of a database. Query parameters
// are used as equality conditions, with values parsed as json when possible.
func NewListRecordsHandler(app sugar.NotionSugar, authenticator auth.Enticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		db := chi.URLParam(r, "database")

		ctx, span := tracer.Start(r.Context(), "list-records")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = checkAccess(ctx, w, r, authenticator, db); err != nil {
			return
		}

		conditions := map[string]any{}
		for name, values := range r.URL.Query() {
			conditions[name] = parseValue(values[0])
		}

		records, err := app.ListRecords(ctx, db, conditions)
		if err != nil {
			reportError(ctx, w, "list records failed", err)
			return
		}

		writeJSON(w, http.StatusOK, records)
	}
}

func NewAddRecordHandler(app sugar.NotionSugar, authenticator auth.Enticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		db := chi.URLParam(r, "database")

		ctx, span := tracer.Start(r.Context(), "add-record")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = checkAccess(ctx, w, r, authenticator, db); err != nil {
			return
		}

		req, err := decodeWriteRequest(r)
		if err != nil {
			problems.NewBadRequest(err.Error()).WithTraceID(traceID(ctx)).WriteResponse(w)
			return
		}

		result, err := app.AddRecord(ctx, db, req.Fields, req.Types)
		if err != nil {
			reportError(ctx, w, "add record failed", err)
			return
		}

		w.Header().Add("Location", fmt.Sprintf("/api/v0/databases/%s/records/%s", db, result.Record.ID))
		writeJSON(w, http.StatusCreated, newWriteResponse(result))
	}
}

func NewUpdateRecordHandler(app sugar.NotionSugar, authenticator auth.Enticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		db := chi.URLParam(r, "database")
		pageID := chi.URLParam(r, "pageId")

		ctx, span := tracer.Start(r.Context(), "update-record")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = checkAccess(ctx, w, r, authenticator, db); err != nil {
			return
		}

		req, err := decodeWriteRequest(r)
		if err != nil {
			problems.NewBadRequest(err.Error()).WithTraceID(traceID(ctx)).WriteResponse(w)
			return
		}

		result, err := app.UpdateRecord(ctx, db, pageID, req.Fields, req.Types)
		if err != nil {
			reportError(ctx, w, "update record failed", err)
			return
		}

		writeJSON(w, http.StatusOK, newWriteResponse(result))
	}
}

func NewDeleteRecordHandler(app sugar.NotionSugar, authenticator auth.Enticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		db := chi.URLParam(r, "database")
		pageID := chi.URLParam(r, "pageId")

		ctx, span := tracer.Start(r.Context(), "delete-record")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = checkAccess(ctx, w, r, authenticator, db); err != nil {
			return
		}

		err = app.DeleteRecord(ctx, db, pageID)
		if err != nil {
			reportError(ctx, w, "delete record failed", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func checkAccess(ctx context.Context, w http.ResponseWriter, r *http.Request, authenticator auth.Enticator, db string) error {
	err := authenticator.CheckAccess(ctx, r, db)
	if err != nil {
		logging.GetFromContext(ctx).Warn("access not granted", "database", db, "err", err.Error())
		problems.NewUnauthorized("access not granted").WithTraceID(traceID(ctx)).WriteResponse(w)
	}
	return err
}

func decodeWriteRequest(r *http.Request) (*WriteRequest, error) {
	req := &WriteRequest{}

	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		return nil, fmt.Errorf("unable to decode request payload: %s", err.Error())
	}

	if len(req.Fields) == 0 {
		return nil, fmt.Errorf("request payload contains no fields")
	}

	return req, nil
}

func newWriteResponse(result *sugar.WriteResult) WriteResponse {
	response := WriteResponse{Record: result.Record, Warnings: []string{}}
	for _, w := range result.Warnings {
		response.Warnings = append(response.Warnings, w.Error())
	}
	return response
}

func parseValue(raw string) any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	return parsed
}

func reportError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	logging.GetFromContext(ctx).Error(msg, "err", err.Error())
	problems.FromError(err).WithTraceID(traceID(ctx)).WriteResponse(w)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		problems.NewInternalError(err.Error()).WriteResponse(w)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}

func traceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}
