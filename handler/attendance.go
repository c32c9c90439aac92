package handler

import (
	"context"
	"errors"
	"fmt"

	"StaffBot/metrics"
	"StaffBot/model"
)

// attend claims a slot in the open request for the sender.
func (h *Handler) attend(ctx context.Context, ev Event) {
	w, ok := h.roster.Lookup(ev.UserID)
	if !ok || !w.Complete() {
		metrics.RecordAdmission(ctx, "not_registered")
		h.reply(ctx, ev, msgNotInRoster, MenuKeep)
		return
	}

	res, err := h.request.Admit(w)
	switch {
	case errors.Is(err, model.ErrNotRegistered):
		metrics.RecordAdmission(ctx, "not_registered")
		h.reply(ctx, ev, msgNotInRoster, MenuKeep)
		return
	case errors.Is(err, model.ErrAlreadyAttending):
		metrics.RecordAdmission(ctx, "already_attending")
		h.reply(ctx, ev, msgAlreadyAttending, MenuKeep)
		return
	case errors.Is(err, model.ErrCapacityReached):
		metrics.RecordAdmission(ctx, "capacity_reached")
		if !h.request.Snapshot().Open() {
			h.reply(ctx, ev, msgNoOpenRequest, MenuKeep)
			return
		}
		h.reply(ctx, ev, msgCapacityReached, MenuKeep)
		return
	case err != nil:
		h.log.Error().Err(err).Int64("user_id", ev.UserID).Msg("error admitting worker")
		return
	}

	metrics.RecordAdmission(ctx, "admitted")
	h.log.Info().
		Int64("user_id", ev.UserID).
		Int("position", res.Position).
		Int("cycle", res.Cycle).
		Bool("filled", res.Filled).
		Msg("worker admitted")
	h.reply(ctx, ev, fmt.Sprintf(msgAttending, res.Position, res.Required), MenuKeep)

	if res.Filled {
		h.announceFull(ctx, res)
	}
}

// announceFull sends the final roster once per cycle: names to the workers,
// names and phones to the admin.
func (h *Handler) announceFull(ctx context.Context, res model.AdmitResult) {
	date := ""
	if !res.Date.IsZero() {
		date = res.Date.Format(model.DateLayout)
	}
	h.broadcaster.Broadcast(ctx, "roster_full", rosterText(rosterHeader(date, false), res.Roster, false), MenuKeep, true)

	full := rosterText(rosterHeader(date, true), res.Roster, true)
	h.broadcaster.Notify(ctx, h.adminID, fmt.Sprintf(msgRosterFullAdmin, full), MenuKeep)
}

// workerList shows who signed up. The admin sees phone numbers; members
// must be registered to see names.
func (h *Handler) workerList(ctx context.Context, ev Event) {
	admin := h.isAdmin(ev.UserID)
	if !admin && !h.roster.IsFullyRegistered(ev.UserID) {
		h.reply(ctx, ev, msgNotInRoster, MenuKeep)
		return
	}

	snap := h.request.Snapshot()
	if len(snap.Attending) == 0 {
		h.reply(ctx, ev, msgNobodyYet, MenuKeep)
		return
	}
	h.reply(ctx, ev, rosterText(rosterHeader(snap.DateString(), admin), snap.Attending, admin), MenuKeep)
}
