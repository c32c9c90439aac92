package handler

import (
	"context"
	"fmt"

	"StaffBot/model"
)

func (h *Handler) requestWorkers(ctx context.Context, s *model.Session, ev Event) {
	if err := h.authorize(ev, "request workers"); err != nil {
		h.log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("request denied")
		h.reply(ctx, ev, msgDenied, MenuKeep)
		return
	}
	s.AwaitDate()
	h.reply(ctx, ev, msgAskDate, MenuKeep)
}

func (h *Handler) onDate(ctx context.Context, s *model.Session, ev Event) {
	date, err := model.ParseDate(ev.Text)
	if err != nil {
		h.reply(ctx, ev, msgDateFormat, MenuKeep)
		return
	}
	h.request.StageDate(date)
	s.AwaitWorkerCount()
	h.reply(ctx, ev, msgAskCount, MenuKeep)
}

func (h *Handler) onWorkerCount(ctx context.Context, s *model.Session, ev Event) {
	count, err := model.ParseCount(ev.Text)
	if err != nil {
		h.reply(ctx, ev, msgCountFormat, MenuKeep)
		return
	}

	snap, err := h.request.Open(count)
	if err != nil {
		// The staged date is gone, so ask for it again.
		h.log.Error().Err(err).Msg("error opening staffing request")
		s.AwaitDate()
		h.reply(ctx, ev, msgAskDate, MenuKeep)
		return
	}
	s.Reset()

	h.log.Info().
		Str("date", snap.DateString()).
		Int("required", snap.RequiredCount).
		Int("cycle", snap.Cycle).
		Msg("staffing request opened")

	d := h.broadcaster.Broadcast(ctx, "announce", announcement(snap), MenuMember, true)
	h.reply(ctx, ev, fmt.Sprintf(msgRequestSent, d.Sent, d.Sent+d.Failed), MenuAdmin)
}

// clear resets the staffing request. Only the admin may do this; the
// roster itself is untouched.
func (h *Handler) clear(ctx context.Context, s *model.Session, ev Event) {
	if err := h.authorize(ev, "clear"); err != nil {
		h.log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("clear denied")
		h.reply(ctx, ev, msgDenied, MenuKeep)
		return
	}
	if s.State().AdminOnly() {
		s.Reset()
	}
	snap := h.request.Clear()
	h.log.Info().Int("cycle", snap.Cycle).Msg("staffing request cleared")
	h.reply(ctx, ev, msgCleared, MenuAdmin)
}

// remindPending answers /start while the admin is composing a request.
func (h *Handler) remindPending(ctx context.Context, s *model.Session, ev Event) {
	prompt := msgAskDate
	if s.State() == model.StateAwaitingWorkerCount {
		prompt = msgAskCount
	}
	h.reply(ctx, ev, fmt.Sprintf(msgFinishPrompt, prompt), MenuKeep)
}
