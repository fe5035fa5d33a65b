package dialog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rcliao/tracker-agent/internal/timecalc"
)

// sessionSeq orders sessions across all flows by when they were begun.
var sessionSeq atomic.Uint64

// Session is the scratch state of one user's in-progress flow. S is the
// flow's own state type.
type Session[S ~int] struct {
	UserID   string
	UserName string
	ChatID   int64
	State    S

	Discipline string
	Offered    []string // disciplines shown on the picker, indexed by token
	Start      timecalc.TimeOfDay
	End        timecalc.TimeOfDay
	Date       time.Time

	seq uint64
}

// SessionStore holds at most one session per user for a single flow.
type SessionStore[S ~int] struct {
	mu       sync.Mutex
	sessions map[string]*Session[S]
}

// NewSessionStore returns an empty store.
func NewSessionStore[S ~int]() *SessionStore[S] {
	return &SessionStore[S]{sessions: make(map[string]*Session[S])}
}

// Begin starts a fresh session for the user, dropping any previous one.
func (st *SessionStore[S]) Begin(userID, userName string, chatID int64) *Session[S] {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &Session[S]{
		UserID:   userID,
		UserName: userName,
		ChatID:   chatID,
		seq:      sessionSeq.Add(1),
	}
	st.sessions[userID] = s
	return s
}

// Get returns the user's session, if any.
func (st *SessionStore[S]) Get(userID string) (*Session[S], bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	return s, ok
}

// Discard removes the user's session and reports whether one existed.
func (st *SessionStore[S]) Discard(userID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[userID]
	delete(st.sessions, userID)
	return ok
}

// Len returns the number of active sessions.
func (st *SessionStore[S]) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
