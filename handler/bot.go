package handler

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"StaffBot/model"

	"github.com/rs/zerolog"
)

// Event is one inbound chat message, independent of the transport.
type Event struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
	Contact  *Contact
}

// Contact is a shared phone contact. UserID is the account the contact
// belongs to, which may differ from the sender.
type Contact struct {
	UserID      int64
	PhoneNumber string
}

// Messenger delivers text to a chat.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, menu Menu) error
}

// Roster is the registered-worker store the handlers read and append to.
type Roster interface {
	Lookup(userID int64) (model.Worker, bool)
	IsFullyRegistered(userID int64) bool
	Append(ctx context.Context, w model.Worker) error
	List() []model.Worker
}

type Options struct {
	AdminID   int64
	Labels    Labels
	Roster    Roster
	Request   *model.StaffingRequest
	Messenger Messenger
	Logger    zerolog.Logger
}

// Handler routes chat events through the per-user state machine.
type Handler struct {
	adminID     int64
	labels      Labels
	roster      Roster
	request     *model.StaffingRequest
	messenger   Messenger
	broadcaster *Broadcaster
	sessions    *sessions
	log         zerolog.Logger
}

func New(opts Options) *Handler {
	request := opts.Request
	if request == nil {
		request = model.NewStaffingRequest()
	}
	return &Handler{
		adminID:     opts.AdminID,
		labels:      opts.Labels.WithDefaults(),
		roster:      opts.Roster,
		request:     request,
		messenger:   opts.Messenger,
		broadcaster: NewBroadcaster(opts.Roster, opts.Messenger, opts.AdminID, opts.Logger),
		sessions:    newSessions(),
		log:         opts.Logger,
	}
}

// SessionState reports where the user is in the conversation.
func (h *Handler) SessionState(userID int64) model.State {
	return h.sessions.state(userID)
}

func (h *Handler) isAdmin(userID int64) bool {
	return userID == h.adminID
}

// authorize returns model.ErrNotAdmin unless the sender is the admin.
func (h *Handler) authorize(ev Event, action string) error {
	if h.isAdmin(ev.UserID) {
		return nil
	}
	return fmt.Errorf("%s: %w", action, model.ErrNotAdmin)
}

// Handle processes one event. It never panics; a failing handler is logged
// and the next event is processed normally.
func (h *Handler) Handle(ctx context.Context, ev Event) {
	logger := h.log.With().Int64("user_id", ev.UserID).Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("handler panicked")
		}
	}()

	h.sessions.with(ev.UserID, func(s *model.Session) {
		before := s.State()
		h.dispatch(ctx, s, ev)
		if after := s.State(); after != before {
			logger.Debug().Stringer("from", before).Stringer("to", after).Msg("session state changed")
		}
	})
}

func (h *Handler) dispatch(ctx context.Context, s *model.Session, ev Event) {
	text := strings.TrimSpace(ev.Text)
	cmd, _ := parseCommand(text)

	switch cmd {
	case "/clear":
		h.clear(ctx, s, ev)
		return
	case "/help":
		h.help(ctx, ev)
		return
	}

	switch s.State() {
	case model.StateAwaitingDate, model.StateAwaitingWorkerCount:
		if cmd == "/start" {
			h.remindPending(ctx, s, ev)
			return
		}
		if s.State() == model.StateAwaitingDate {
			h.onDate(ctx, s, ev)
		} else {
			h.onWorkerCount(ctx, s, ev)
		}
	case model.StateAwaitingFullName:
		if cmd == "/start" {
			h.start(ctx, s, ev)
			return
		}
		h.onFullName(ctx, s, ev)
	case model.StateAwaitingPhone:
		if cmd == "/start" {
			h.start(ctx, s, ev)
			return
		}
		h.onPhone(ctx, s, ev)
	default:
		h.idle(ctx, s, ev, text, cmd)
	}
}

func (h *Handler) idle(ctx context.Context, s *model.Session, ev Event, text, cmd string) {
	if cmd == "/start" {
		h.start(ctx, s, ev)
		return
	}
	switch text {
	case h.labels.RequestWorkers:
		h.requestWorkers(ctx, s, ev)
	case h.labels.WorkerList:
		h.workerList(ctx, ev)
	case h.labels.Attend:
		h.attend(ctx, ev)
	default:
		h.reply(ctx, ev, msgUnknown, MenuKeep)
	}
}

func (h *Handler) help(ctx context.Context, ev Event) {
	admin := h.isAdmin(ev.UserID)
	registered := h.roster.IsFullyRegistered(ev.UserID)
	h.reply(ctx, ev, helpText(h.labels, admin, registered), MenuKeep)
}

// menuFor is the resting keyboard of a registered user.
func (h *Handler) menuFor(userID int64) Menu {
	if h.isAdmin(userID) {
		return MenuAdmin
	}
	return MenuMember
}

// reply answers the sender. Failures are logged only.
func (h *Handler) reply(ctx context.Context, ev Event, text string, menu Menu) {
	chatID := ev.ChatID
	if chatID == 0 {
		chatID = ev.UserID
	}
	if err := h.messenger.Send(ctx, chatID, text, menu); err != nil {
		h.log.Error().Err(err).Int64("user_id", ev.UserID).Msg("error sending message")
	}
}
