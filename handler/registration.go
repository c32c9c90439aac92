package handler

import (
	"context"
	"fmt"
	"strings"

	"StaffBot/metrics"
	"StaffBot/model"
)

// start begins registration, or tells a registered user they are done.
func (h *Handler) start(ctx context.Context, s *model.Session, ev Event) {
	if h.roster.IsFullyRegistered(ev.UserID) {
		s.Reset()
		h.reply(ctx, ev, msgAlreadyRegistered, h.menuFor(ev.UserID))
		return
	}
	s.AwaitFullName()
	h.reply(ctx, ev, msgAskFullName, MenuNone)
}

func (h *Handler) onFullName(ctx context.Context, s *model.Session, ev Event) {
	if strings.HasPrefix(strings.TrimSpace(ev.Text), "/") {
		h.reply(ctx, ev, msgFullNameFormat, MenuKeep)
		return
	}
	draft, ok := model.ParseFullName(ev.Text)
	if !ok {
		h.reply(ctx, ev, msgFullNameFormat, MenuKeep)
		return
	}
	if err := s.AwaitPhone(draft); err != nil {
		h.log.Error().Err(err).Int64("user_id", ev.UserID).Msg("error storing name")
		h.reply(ctx, ev, msgFullNameFormat, MenuKeep)
		return
	}
	h.reply(ctx, ev, msgAskPhone, MenuContact)
}

func (h *Handler) onPhone(ctx context.Context, s *model.Session, ev Event) {
	phone, ok := h.phoneFromEvent(ctx, ev)
	if !ok {
		return
	}

	draft := s.Draft()
	w := model.Worker{
		UserID:      ev.UserID,
		FirstName:   draft.FirstName,
		LastName:    draft.LastName,
		PhoneNumber: phone,
	}

	if err := h.roster.Append(ctx, w); err != nil {
		// The session keeps its draft so the user can resend the phone.
		h.log.Error().Err(err).Int64("user_id", ev.UserID).Msg("error saving registration")
		metrics.RecordRegistration(ctx, "failed")
		h.reply(ctx, ev, msgSaveFailed, MenuContact)
		if !h.isAdmin(ev.UserID) {
			h.broadcaster.Notify(ctx, h.adminID, fmt.Sprintf(msgAdminSaveFailed, w.UserID, w.FullName(), err), MenuKeep)
		}
		return
	}

	s.Reset()
	metrics.RecordRegistration(ctx, "ok")
	h.log.Info().Int64("user_id", ev.UserID).Str("name", w.FullName()).Msg("worker registered")

	if h.isAdmin(ev.UserID) {
		h.reply(ctx, ev, welcome(w), MenuKeep)
		h.reply(ctx, ev, fmt.Sprintf(msgAdminPanel, h.labels.RequestWorkers), MenuAdmin)
		return
	}

	h.reply(ctx, ev, welcome(w), MenuKeep)
	h.broadcaster.Notify(ctx, h.adminID, newWorkerNotice(w), MenuAdmin)
	h.reply(ctx, ev, msgRegistered, MenuMember)
}

// phoneFromEvent extracts the phone from a contact share or typed text and
// re-prompts the user when neither is acceptable.
func (h *Handler) phoneFromEvent(ctx context.Context, ev Event) (string, bool) {
	if ev.Contact != nil {
		if ev.Contact.UserID != ev.UserID {
			h.reply(ctx, ev, msgOwnContactOnly, MenuContact)
			return "", false
		}
		phone := normalizeContactPhone(ev.Contact.PhoneNumber)
		if phone == "" {
			h.reply(ctx, ev, msgPhoneFormat, MenuContact)
			return "", false
		}
		return phone, true
	}

	phone, ok := model.ParsePhone(ev.Text)
	if !ok {
		h.reply(ctx, ev, msgPhoneFormat, MenuContact)
		return "", false
	}
	return phone, true
}

// normalizeContactPhone adds the "+" Telegram omits from some contacts so
// shared and typed numbers look the same.
func normalizeContactPhone(raw string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}
	if _, ok := model.ParsePhone("+" + phone); ok {
		return "+" + phone
	}
	return phone
}
