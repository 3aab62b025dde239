package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
)

// Event types carried on the role events stream.
const (
	EventWalletLinked  = "wallet_linked"
	EventSyncRequested = "sync_requested"
)

const streamMaxLen = 10000

// Event asks the bot to reconcile roles. UserID is set for wallet_linked.
type Event struct {
	Type        string
	UserID      snowflake.ID
	RequestedBy string
	At          time.Time
}

func (e Event) values() map[string]interface{} {
	v := map[string]interface{}{
		"type": e.Type,
		"at":   e.At.UTC().Format(time.RFC3339),
	}
	if e.UserID != 0 {
		v["user_id"] = e.UserID.String()
	}
	if e.RequestedBy != "" {
		v["requested_by"] = e.RequestedBy
	}
	return v
}

func parseEvent(values map[string]interface{}) (Event, error) {
	var e Event
	t, ok := values["type"].(string)
	if !ok || t == "" {
		return e, fmt.Errorf("missing event type")
	}
	e.Type = t
	if s, ok := values["user_id"].(string); ok && s != "" {
		id, err := snowflake.Parse(s)
		if err != nil {
			return e, fmt.Errorf("invalid user_id %q: %w", s, err)
		}
		e.UserID = id
	}
	if s, ok := values["requested_by"].(string); ok {
		e.RequestedBy = s
	}
	if s, ok := values["at"].(string); ok {
		e.At, _ = time.Parse(time.RFC3339, s)
	}
	return e, nil
}

// Publisher appends events to the stream the bot consumes.
type Publisher struct {
	client redis.Cmdable
	stream string
	now    func() time.Time
}

func NewPublisher(client redis.Cmdable, stream string) *Publisher {
	return &Publisher{client: client, stream: stream, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = p.now()
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: e.values(),
	}).Err()
}

func (p *Publisher) WalletLinked(ctx context.Context, userID snowflake.ID) error {
	return p.Publish(ctx, Event{Type: EventWalletLinked, UserID: userID})
}

func (p *Publisher) SyncRequested(ctx context.Context, requestedBy string) error {
	return p.Publish(ctx, Event{Type: EventSyncRequested, RequestedBy: requestedBy})
}
