// Package dialog implements the guided recording conversations: one state
// machine per event kind and an Agent that routes chat events to them.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/menu"
	"github.com/rcliao/tracker-agent/internal/model"
	"github.com/rcliao/tracker-agent/internal/store"
	"github.com/rcliao/tracker-agent/internal/timecalc"
)

// User identifies the person behind an event.
type User struct {
	ID   string
	Name string
}

// Update is one inbound chat event. Data is set for button presses and holds
// the encoded token; otherwise Text carries the message, commands included.
// A transport whose buttons are chosen by typing may set both; the text is
// used when the button's session no longer takes a choice or a newer session
// is waiting for typed input.
type Update struct {
	User   User
	ChatID int64
	Text   string
	Data   string
}

// Repository is the storage the flows and listings need.
type Repository interface {
	AddStudy(ctx context.Context, r *model.StudyRecord) error
	AddSleep(ctx context.Context, r *model.SleepRecord) error
	ListStudy(ctx context.Context, p store.ListParams) ([]model.StudyRecord, error)
	ListSleep(ctx context.Context, p store.ListParams) ([]model.SleepRecord, error)
	RecentDisciplines(ctx context.Context, userID string, limit int) ([]string, error)
}

// Options configures an Agent.
type Options struct {
	// Now returns the current time; the date picker counts back from it.
	// Defaults to time.Now.
	Now func() time.Time
}

type flow interface {
	begin(ctx context.Context, in input) error
	accepts(userID string, ev EventKind) (seq uint64, active, ok bool)
	owner(userID string, seq uint64) (owns, acceptsChoice bool)
	handle(ctx context.Context, in input) error
	discard(userID string) bool
}

// Agent dispatches chat events to commands and recording flows.
type Agent struct {
	repo  Repository
	out   Messenger
	Study *StudyFlow
	Sleep *SleepFlow
	flows []flow
}

// NewAgent returns an agent that persists to repo and replies through out.
func NewAgent(repo Repository, out Messenger, opts Options) *Agent {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &Agent{
		repo:  repo,
		out:   out,
		Study: NewStudyFlow(repo, opts.Now),
		Sleep: NewSleepFlow(repo, opts.Now),
	}
	a.flows = []flow{a.Study, a.Sleep}
	return a
}

// Handle processes one event to completion. The returned error is for the
// transport to log; the user has already been answered.
func (a *Agent) Handle(ctx context.Context, u Update) error {
	ctx = withRequestID(ctx, uuid.NewString())

	if u.Data != "" {
		return a.handleChoice(ctx, u)
	}
	return a.handleText(ctx, u)
}

func (a *Agent) handleText(ctx context.Context, u Update) error {
	text := strings.TrimSpace(u.Text)
	if name, ok := parseCommand(text); ok {
		return a.handleCommand(ctx, u, name)
	}

	in := input{kind: EventText, user: u.User, text: text, reply: replier{m: a.out, chatID: u.ChatID}}
	f := a.route(u.User.ID, EventText)
	if f == nil {
		return in.reply.text(ctx, msgNoCommand)
	}
	return f.handle(ctx, in)
}

func (a *Agent) handleChoice(ctx context.Context, u Update) error {
	r := replier{m: a.out, chatID: u.ChatID, edit: true}
	tok, err := menu.ParseToken(u.Data)
	if err != nil {
		logger.Warn("ignoring button", "user", u.User.ID, "data", u.Data, "req", requestID(ctx), "error", err)
		return nil
	}

	var f flow
	if tok.Session != 0 {
		var acceptsChoice bool
		f, acceptsChoice = a.owner(u.User.ID, tok.Session)
		if u.Text != "" && (!acceptsChoice || a.awaitsTextSince(u.User.ID, tok.Session)) {
			return a.handleText(ctx, u)
		}
	} else {
		f = a.route(u.User.ID, EventChoice)
	}
	if f == nil {
		logger.Debug("stale button", "user", u.User.ID, "data", u.Data, "req", requestID(ctx))
		return r.text(ctx, msgStale)
	}
	return f.handle(ctx, input{kind: EventChoice, user: u.User, token: tok, reply: r})
}

// owner finds the flow whose current session issued a scoped button. Buttons
// from cancelled, finished or superseded sessions have no owner.
func (a *Agent) owner(userID string, seq uint64) (flow, bool) {
	for _, f := range a.flows {
		if owns, ok := f.owner(userID, seq); owns {
			return f, ok
		}
	}
	return nil, false
}

// awaitsTextSince reports whether a session begun after seq is waiting for
// typed input.
func (a *Agent) awaitsTextSince(userID string, seq uint64) bool {
	for _, f := range a.flows {
		if s, _, ok := f.accepts(userID, EventText); ok && s > seq {
			return true
		}
	}
	return false
}

// route picks the flow that should receive an event: the most recently begun
// session whose state accepts the event kind, or failing that the most recent
// active session, which will answer with a hint.
func (a *Agent) route(userID string, ev EventKind) flow {
	var (
		best, fallback       flow
		bestSeq, fallbackSeq uint64
	)
	for _, f := range a.flows {
		seq, active, ok := f.accepts(userID, ev)
		if !active {
			continue
		}
		if seq > fallbackSeq {
			fallback, fallbackSeq = f, seq
		}
		if ok && seq > bestSeq {
			best, bestSeq = f, seq
		}
	}
	if best != nil {
		return best
	}
	return fallback
}

func (a *Agent) handleCommand(ctx context.Context, u Update, name string) error {
	in := input{kind: EventText, user: u.User, reply: replier{m: a.out, chatID: u.ChatID}}
	logger.Debug("command", "user", u.User.ID, "command", name, "req", requestID(ctx))

	switch name {
	case CmdStart:
		return in.reply.text(ctx, fmt.Sprintf(msgWelcome, u.User.Name))
	case CmdHelp:
		return in.reply.text(ctx, helpText())
	case CmdAddStudy:
		return a.Study.begin(ctx, in)
	case CmdAddSleep:
		return a.Sleep.begin(ctx, in)
	case CmdListStudy:
		return a.listStudy(ctx, in)
	case CmdListSleep:
		return a.listSleep(ctx, in)
	case CmdCancel:
		return a.cancelAll(ctx, in)
	default:
		return in.reply.text(ctx, msgUnknownCommand)
	}
}

// cancelAll discards every flow the user has in progress.
func (a *Agent) cancelAll(ctx context.Context, in input) error {
	cancelled := false
	for _, f := range a.flows {
		if f.discard(in.user.ID) {
			cancelled = true
		}
	}
	if !cancelled {
		return in.reply.text(ctx, msgNoOperation)
	}
	logger.Info("flows cancelled", "user", in.user.ID, "req", requestID(ctx))
	return in.reply.text(ctx, msgCancelled)
}

func (a *Agent) listStudy(ctx context.Context, in input) error {
	records, err := a.repo.ListStudy(ctx, store.ListParams{UserID: in.user.ID})
	if err != nil {
		return a.storageFailure(ctx, in, err)
	}
	if len(records) == 0 {
		return in.reply.text(ctx, msgNoStudy)
	}

	var b strings.Builder
	b.WriteString(msgStudyListTitle)
	for _, r := range records {
		fmt.Fprintf(&b, "Date: %s\nStart: %s\nEnd: %s\nDuration: %s\nDiscipline: %s\nPerformance: %d%%\n\n",
			r.Date, r.StartTime, r.EndTime, timecalc.FormatDuration(r.DurationHours, r.DurationMinutes),
			r.Discipline, r.Performance)
	}
	return in.reply.text(ctx, strings.TrimRight(b.String(), "\n"))
}

func (a *Agent) listSleep(ctx context.Context, in input) error {
	records, err := a.repo.ListSleep(ctx, store.ListParams{UserID: in.user.ID})
	if err != nil {
		return a.storageFailure(ctx, in, err)
	}
	if len(records) == 0 {
		return in.reply.text(ctx, msgNoSleep)
	}

	var b strings.Builder
	b.WriteString(msgSleepListTitle)
	for _, r := range records {
		fmt.Fprintf(&b, "Date: %s\nStart: %s\nEnd: %s\nDuration: %s\nQuality: %s\n\n",
			r.Date, r.StartTime, r.EndTime, timecalc.FormatDuration(r.DurationHours, r.DurationMinutes),
			r.Quality.Label())
	}
	return in.reply.text(ctx, strings.TrimRight(b.String(), "\n"))
}

func (a *Agent) storageFailure(ctx context.Context, in input, err error) error {
	err = fmt.Errorf("%w: %v", ErrStorage, err)
	logger.Error("listing failed", "user", in.user.ID, "req", requestID(ctx), "error", err)
	if replyErr := in.reply.text(ctx, msgFailure); replyErr != nil {
		return errors.Join(err, replyErr)
	}
	return err
}

// parseCommand extracts the command name from "/name@bot args".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name, _, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), name != ""
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// requestID returns the id of the event being handled, if any.
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
