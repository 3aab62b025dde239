package workers

import (
	"context"
	"errors"
	"strings"
	"time"

	"catcents-backend/internal/features/roles/service"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RoleSyncHandler is what the worker drives for each event.
type RoleSyncHandler interface {
	SyncMember(ctx context.Context, userID snowflake.ID) (*service.ReconcileResult, error)
	SyncAll(ctx context.Context) (service.SyncSummary, error)
}

type RoleEventsWorker struct {
	rdb      *redis.Client
	handler  RoleSyncHandler
	stream   string
	group    string
	consumer string
	block    time.Duration
	log      zerolog.Logger
}

func NewRoleEventsWorker(rdb *redis.Client, handler RoleSyncHandler, stream, group, consumer string, log zerolog.Logger) *RoleEventsWorker {
	return &RoleEventsWorker{
		rdb:      rdb,
		handler:  handler,
		stream:   stream,
		group:    group,
		consumer: consumer,
		block:    5 * time.Second,
		log:      log,
	}
}

// WithBlock sets how long one read waits for new entries.
func (w *RoleEventsWorker) WithBlock(d time.Duration) *RoleEventsWorker {
	w.block = d
	return w
}

// Run consumes the stream until ctx is done. Entries are acked after
// handling whether or not handling succeeded; the periodic pass repairs
// anything a failed event left behind.
func (w *RoleEventsWorker) Run(ctx context.Context) error {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}

	w.log.Info().Str("stream", w.stream).Str("group", w.group).Msg("Role events worker started")

	for {
		if ctx.Err() != nil {
			w.log.Info().Msg("Role events worker stopped")
			return nil
		}

		entries, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.group,
			Consumer: w.consumer,
			Streams:  []string{w.stream, ">"},
			Count:    10,
			Block:    w.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Error reading role events")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		for _, stream := range entries {
			for _, msg := range stream.Messages {
				w.processMessage(ctx, msg)
				if err := w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err(); err != nil {
					w.log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to ack role event")
				}
			}
		}
	}
}

func (w *RoleEventsWorker) processMessage(ctx context.Context, msg redis.XMessage) {
	event, err := parseEvent(msg.Values)
	if err != nil {
		w.log.Warn().Err(err).Str("message_id", msg.ID).Msg("Dropping malformed role event")
		return
	}

	log := w.log.With().Str("event", event.Type).Str("message_id", msg.ID).Logger()

	switch event.Type {
	case EventWalletLinked:
		if event.UserID == 0 {
			log.Warn().Msg("wallet_linked without user_id")
			return
		}
		res, err := w.handler.SyncMember(ctx, event.UserID)
		if err != nil {
			log.Error().Err(err).Str("member_id", event.UserID.String()).Msg("Failed to sync member")
			return
		}
		log.Info().
			Str("member_id", event.UserID.String()).
			Int("added", len(res.Added)).
			Int("removed", len(res.Removed)).
			Msg("Member synced")
	case EventSyncRequested:
		log.Info().Str("requested_by", event.RequestedBy).Msg("Sync requested")
		if _, err := w.handler.SyncAll(ctx); err != nil {
			log.Error().Err(err).Msg("Requested sync failed")
		}
	default:
		log.Warn().Msg("Unknown role event type")
	}
}
