package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/tracker-agent/internal/model"
	"github.com/rcliao/tracker-agent/internal/timecalc"
)

// ErrUnknownToken is returned when a button payload cannot be decoded.
var ErrUnknownToken = errors.New("unknown token")

// Kind identifies what a button selects.
type Kind string

const (
	KindCancel        Kind = "cancel"
	KindDate          Kind = "date"
	KindPerformance   Kind = "perf"
	KindQuality       Kind = "quality"
	KindDiscipline    Kind = "disc"
	KindNewDiscipline Kind = "disc_new"
)

// kinds maps every known kind to whether it carries a payload.
var kinds = map[Kind]bool{
	KindCancel:        false,
	KindDate:          true,
	KindPerformance:   true,
	KindQuality:       true,
	KindDiscipline:    true,
	KindNewDiscipline: false,
}

const (
	sep        = ":"
	sessionSep = "@"
)

// Token is the typed value behind a button. Session, when non-zero, ties the
// button to the dialog session that offered it.
type Token struct {
	Kind    Kind
	Payload string
	Session uint64
}

// Cancel is the token of the universal cancel button.
var Cancel = Token{Kind: KindCancel}

// Encode returns the wire form of t: "kind" or "kind:payload", followed by
// "@session" for scoped tokens.
func (t Token) Encode() string {
	s := string(t.Kind)
	if t.Payload != "" {
		s += sep + t.Payload
	}
	if t.Session != 0 {
		s += sessionSep + strconv.FormatUint(t.Session, 10)
	}
	return s
}

// ParseToken decodes a wire payload produced by Encode. Unknown kinds, and
// kinds with a missing or unexpected payload, are rejected.
func ParseToken(s string) (Token, error) {
	body, session, scoped := strings.Cut(s, sessionSep)
	var seq uint64
	if scoped {
		n, err := strconv.ParseUint(session, 10, 64)
		if err != nil || n == 0 {
			return Token{}, fmt.Errorf("%w: malformed session in %q", ErrUnknownToken, s)
		}
		seq = n
	}

	kind, payload, _ := strings.Cut(body, sep)
	hasPayload, ok := kinds[Kind(kind)]
	if !ok {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, s)
	}
	if hasPayload != (payload != "") {
		return Token{}, fmt.Errorf("%w: malformed payload in %q", ErrUnknownToken, s)
	}
	return Token{Kind: Kind(kind), Payload: payload, Session: seq}, nil
}

// Date returns the payload of a date token.
func (t Token) Date() (time.Time, error) {
	if t.Kind != KindDate {
		return time.Time{}, fmt.Errorf("token %q is not a date", t.Encode())
	}
	return timecalc.ParseDate(t.Payload)
}

// Performance returns the payload of a performance token.
func (t Token) Performance() (int, error) {
	if t.Kind != KindPerformance {
		return 0, fmt.Errorf("token %q is not a performance", t.Encode())
	}
	p, err := strconv.Atoi(t.Payload)
	if err != nil || !model.ValidPerformance(p) {
		return 0, fmt.Errorf("invalid performance %q", t.Payload)
	}
	return p, nil
}

// Quality returns the payload of a quality token.
func (t Token) Quality() (model.Quality, error) {
	q := model.Quality(t.Payload)
	if t.Kind != KindQuality || !q.Valid() {
		return "", fmt.Errorf("invalid quality token %q", t.Encode())
	}
	return q, nil
}

// Index returns the payload of a discipline token, an index into the
// offered disciplines.
func (t Token) Index() (int, error) {
	if t.Kind != KindDiscipline {
		return 0, fmt.Errorf("token %q is not a discipline", t.Encode())
	}
	i, err := strconv.Atoi(t.Payload)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid discipline index %q", t.Payload)
	}
	return i, nil
}
