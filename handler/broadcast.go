package handler

import (
	"context"
	"errors"

	"StaffBot/metrics"
	"StaffBot/model"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
)

type workerLister interface {
	List() []model.Worker
}

// Broadcaster fans a message out to registered workers. A failed recipient
// is logged and skipped; it never stops the rest of the batch.
type Broadcaster struct {
	roster    workerLister
	messenger Messenger
	adminID   int64
	log       zerolog.Logger
}

// Delivery counts the outcome of one broadcast.
type Delivery struct {
	Sent    int
	Failed  int
	Skipped int
}

func NewBroadcaster(roster workerLister, messenger Messenger, adminID int64, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{roster: roster, messenger: messenger, adminID: adminID, log: logger}
}

// Broadcast sends text to every registered worker, skipping the admin when
// excludeAdmin is set. kind labels the broadcast in logs and metrics.
func (b *Broadcaster) Broadcast(ctx context.Context, kind, text string, menu Menu, excludeAdmin bool) Delivery {
	var d Delivery
	for _, w := range b.roster.List() {
		if excludeAdmin && w.UserID == b.adminID {
			d.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			b.log.Warn().Err(err).Str("kind", kind).Msg("broadcast interrupted")
			break
		}
		if b.deliver(ctx, w.UserID, text, menu) {
			d.Sent++
		} else {
			d.Failed++
		}
	}

	metrics.RecordBroadcast(ctx, kind, d.Sent, d.Failed)
	b.log.Info().
		Str("kind", kind).
		Int("sent", d.Sent).
		Int("failed", d.Failed).
		Msg("broadcast finished")
	return d
}

// Notify sends text to one user with the same failure handling.
func (b *Broadcaster) Notify(ctx context.Context, userID int64, text string, menu Menu) bool {
	return b.deliver(ctx, userID, text, menu)
}

func (b *Broadcaster) deliver(ctx context.Context, userID int64, text string, menu Menu) bool {
	err := b.messenger.Send(ctx, userID, text, menu)
	if err == nil {
		return true
	}
	if errors.Is(err, bot.ErrorForbidden) {
		b.log.Warn().Int64("user_id", userID).Msg("recipient has blocked the bot")
		return false
	}
	b.log.Error().Err(err).Int64("user_id", userID).Msg("error delivering message")
	return false
}
