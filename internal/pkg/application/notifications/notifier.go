package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/diwise/notion-sugar/pkg/notion/database"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

type Notifier interface {
	Start() error
	Stop() error

	RecordCreated(ctx context.Context, databaseID string, r database.Record)
	RecordUpdated(ctx context.Context, databaseID string, r database.Record)
	RecordDeleted(ctx context.Context, databaseID, pageID string)
}

const (
	RecordCreated string = "RecordCreated"
	RecordUpdated string = "RecordUpdated"
	RecordDeleted string = "RecordDeleted"
)

// Notification is the body posted to the notification endpoint
type Notification struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	DatabaseID string           `json:"databaseId"`
	PageID     string           `json:"pageId"`
	NotifiedAt string           `json:"notifiedAt"`
	Record     *database.Record `json:"record,omitempty"`
}

func newNotification(notificationType, databaseID, pageID string, r *database.Record) Notification {
	return Notification{
		ID:         "urn:uuid:" + uuid.NewString(),
		Type:       notificationType,
		DatabaseID: databaseID,
		PageID:     pageID,
		NotifiedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Record:     r,
	}
}

var tracer = otel.Tracer("notion-sugar/notifier")

type action func()

// notifier posts notifications from a single worker. mu guards started and
// sends on queue, so no action is queued once Stop has closed it.
type notifier struct {
	mu       sync.Mutex
	started  bool
	endpoint string

	queue chan action
}

func NewNotifier(ctx context.Context, endpoint string) (Notifier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("a notification endpoint is required")
	}

	return &notifier{
		endpoint: endpoint,
	}, nil
}

func (n *notifier) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started {
		return fmt.Errorf("already started")
	}

	n.started = true
	n.queue = make(chan action, 32)

	go n.run(n.queue)

	return nil
}

func (n *notifier) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started {
		resultChan := make(chan bool)
		queue := n.queue

		queue <- func() {
			// closing the queue ends the run loop once this action returns
			close(queue)
			resultChan <- true
		}

		<-resultChan
		n.started = false
	}
	return nil
}

func (n *notifier) RecordCreated(ctx context.Context, databaseID string, r database.Record) {
	n.enqueue(ctx, newNotification(RecordCreated, databaseID, r.ID, &r))
}

func (n *notifier) RecordUpdated(ctx context.Context, databaseID string, r database.Record) {
	n.enqueue(ctx, newNotification(RecordUpdated, databaseID, r.ID, &r))
}

func (n *notifier) RecordDeleted(ctx context.Context, databaseID, pageID string) {
	n.enqueue(ctx, newNotification(RecordDeleted, databaseID, pageID, nil))
}

func (n *notifier) enqueue(ctx context.Context, notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started {
		return
	}

	var err error

	logger := logging.GetFromContext(ctx)

	ctx, span := tracer.Start(
		tracing.ExtractHeaders(context.Background(), tracing.InjectHeaders(ctx)),
		"post",
	)

	n.queue <- func() {
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		err = postNotification(ctx, notification, n.endpoint)
		if err != nil {
			logger.Error("failed to post notification", "type", notification.Type, "err", err.Error())
		}
	}
}

func postNotification(ctx context.Context, notification Notification, endpoint string) error {
	body, err := json.MarshalIndent(notification, "", " ")
	if err != nil {
		return fmt.Errorf("marshalling error (%w)", err)
	}

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("unable to create new request (%w)", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request (%w)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification endpoint returned status code %d", resp.StatusCode)
	}

	return nil
}

func (n *notifier) run(queue chan action) {
	for action := range queue {
		if action == nil {
			return
		}

		action()
	}
}
