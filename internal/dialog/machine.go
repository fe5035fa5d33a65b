package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/menu"
)

var (
	// ErrUserCancelled ends a flow through the cancel button or command.
	ErrUserCancelled = errors.New("cancelled by user")
	// ErrStorage marks a failed read or write; the flow is abandoned.
	ErrStorage = errors.New("storage failure")
)

// FlowKind names a recording flow.
type FlowKind string

const (
	FlowStudy FlowKind = "study"
	FlowSleep FlowKind = "sleep"
)

// EventKind classifies inbound events a state can accept.
type EventKind int

const (
	EventText EventKind = iota
	EventChoice
)

func (k EventKind) String() string {
	if k == EventChoice {
		return "choice"
	}
	return "text"
}

// input is one event as seen by a transition.
type input struct {
	kind  EventKind
	user  User
	text  string
	token menu.Token
	reply replier
}

// transition handles one (state, event kind) pair and returns the next state.
type transition[S ~int] func(ctx context.Context, s *Session[S], in input) (S, error)

// machine runs a flow's transition table over its sessions.
type machine[S ~int] struct {
	kind      FlowKind
	sessions  *SessionStore[S]
	table     map[S]map[EventKind]transition[S]
	committed S
	cancelled S
	names     map[S]string
}

// accepts reports whether the user's session can take an event of kind ev,
// and the session's ordering sequence.
func (m *machine[S]) accepts(userID string, ev EventKind) (seq uint64, active, ok bool) {
	s, found := m.sessions.Get(userID)
	if !found {
		return 0, false, false
	}
	_, ok = m.table[s.State][ev]
	return s.seq, true, ok
}

// owner reports whether the user's current session has sequence seq, and
// whether its state accepts a button event.
func (m *machine[S]) owner(userID string, seq uint64) (owns, acceptsChoice bool) {
	s, found := m.sessions.Get(userID)
	if !found || s.seq != seq {
		return false, false
	}
	_, ok := m.table[s.State][EventChoice]
	return true, ok
}

// discard drops the user's session, reporting whether one was active.
func (m *machine[S]) discard(userID string) bool {
	return m.sessions.Discard(userID)
}

// handle applies one event to the user's session.
func (m *machine[S]) handle(ctx context.Context, in input) error {
	s, ok := m.sessions.Get(in.user.ID)
	if !ok {
		return fmt.Errorf("%s flow: no session for user %s", m.kind, in.user.ID)
	}

	in.reply.seq = s.seq

	if in.kind == EventChoice && in.token.Kind == menu.KindCancel {
		return m.cancel(ctx, s, in.reply)
	}

	tr, ok := m.table[s.State][in.kind]
	if !ok {
		return in.reply.text(ctx, msgChooseOption)
	}

	from := s.State
	next, err := tr(ctx, s, in)
	switch {
	case errors.Is(err, ErrUserCancelled):
		return m.cancel(ctx, s, in.reply)
	case errors.Is(err, ErrStorage):
		m.sessions.Discard(s.UserID)
		logger.Error("flow abandoned", "flow", m.kind, "user", s.UserID, "state", m.names[from], "req", requestID(ctx), "error", err)
		if replyErr := in.reply.text(ctx, msgFailure); replyErr != nil {
			return errors.Join(err, replyErr)
		}
		return err
	}

	s.State = next
	logger.Debug("transition", "flow", m.kind, "user", s.UserID, "from", m.names[from], "to", m.names[next], "event", in.kind, "req", requestID(ctx))
	if next == m.committed || next == m.cancelled {
		m.sessions.Discard(s.UserID)
	}
	return err
}

// cancel moves the session to the cancelled state and discards it.
func (m *machine[S]) cancel(ctx context.Context, s *Session[S], r replier) error {
	s.State = m.cancelled
	m.sessions.Discard(s.UserID)
	logger.Info("flow cancelled", "flow", m.kind, "user", s.UserID, "req", requestID(ctx))
	return r.text(ctx, msgCancelled)
}

// Messenger delivers replies to a chat.
type Messenger interface {
	// Send posts a plain text message.
	Send(ctx context.Context, chatID int64, text string) error
	// SendChoices posts a message with a button grid.
	SendChoices(ctx context.Context, chatID int64, text string, grid menu.Grid) error
	// Edit replaces the text and buttons of the most recent outgoing message
	// in the chat. A nil grid removes the buttons.
	Edit(ctx context.Context, chatID int64, text string, grid menu.Grid) error
}

// replier answers an event: text events get new messages, button events
// edit the message that carried the buttons. Grids it sends are bound to the
// session seq, when set.
type replier struct {
	m      Messenger
	chatID int64
	edit   bool
	seq    uint64
}

func (r replier) text(ctx context.Context, s string) error {
	if r.edit {
		return r.m.Edit(ctx, r.chatID, s, nil)
	}
	return r.m.Send(ctx, r.chatID, s)
}

func (r replier) choices(ctx context.Context, s string, g menu.Grid) error {
	if r.seq != 0 {
		g = g.Scoped(r.seq)
	}
	if r.edit {
		return r.m.Edit(ctx, r.chatID, s, g)
	}
	return r.m.SendChoices(ctx, r.chatID, s, g)
}
