package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/menu"
	"github.com/rcliao/tracker-agent/internal/model"
	"github.com/rcliao/tracker-agent/internal/timecalc"
)

// SleepState is a state of the sleep flow.
type SleepState int

const (
	SleepStart SleepState = iota
	SleepStartTimeInput
	SleepEndTimeInput
	SleepDatePick
	SleepQualityPick
	SleepCommitted
	SleepCancelled
)

var sleepStateNames = map[SleepState]string{
	SleepStart:          "start",
	SleepStartTimeInput: "start_time_input",
	SleepEndTimeInput:   "end_time_input",
	SleepDatePick:       "date_pick",
	SleepQualityPick:    "quality_pick",
	SleepCommitted:      "committed",
	SleepCancelled:      "cancelled",
}

func (s SleepState) String() string { return sleepStateNames[s] }

// SleepFlow records a sleep period: start, end, date and quality.
type SleepFlow struct {
	machine[SleepState]
	repo Repository
	now  func() time.Time
}

func NewSleepFlow(repo Repository, now func() time.Time) *SleepFlow {
	f := &SleepFlow{repo: repo, now: now}
	f.machine = machine[SleepState]{
		kind:      FlowSleep,
		sessions:  NewSessionStore[SleepState](),
		committed: SleepCommitted,
		cancelled: SleepCancelled,
		names:     sleepStateNames,
	}
	f.table = map[SleepState]map[EventKind]transition[SleepState]{
		SleepStartTimeInput: {EventText: f.startTime},
		SleepEndTimeInput:   {EventText: f.endTime},
		SleepDatePick:       {EventChoice: f.pickDate},
		SleepQualityPick:    {EventChoice: f.pickQuality},
	}
	return f
}

func (f *SleepFlow) Sessions() *SessionStore[SleepState] { return f.sessions }

func (f *SleepFlow) begin(ctx context.Context, in input) error {
	s := f.sessions.Begin(in.user.ID, in.user.Name, in.reply.chatID)
	s.State = SleepStartTimeInput
	in.reply.seq = s.seq
	return in.reply.text(ctx, msgSleepAskStart)
}

func (f *SleepFlow) startTime(ctx context.Context, s *Session[SleepState], in input) (SleepState, error) {
	t, err := timecalc.ParseTimeOfDay(in.text)
	if err != nil {
		return s.State, in.reply.text(ctx, msgInvalidTime)
	}
	s.Start = t
	return SleepEndTimeInput, in.reply.text(ctx, fmt.Sprintf(msgSleepStartSet, t))
}

func (f *SleepFlow) endTime(ctx context.Context, s *Session[SleepState], in input) (SleepState, error) {
	t, err := timecalc.ParseTimeOfDay(in.text)
	if err != nil {
		return s.State, in.reply.text(ctx, msgInvalidTime)
	}
	s.End = t
	return SleepDatePick, in.reply.choices(ctx, msgSleepPickDate, menu.DatePicker(f.now()))
}

// pickDate stores the date and shows the period summary with the quality
// picker.
func (f *SleepFlow) pickDate(ctx context.Context, s *Session[SleepState], in input) (SleepState, error) {
	d, err := in.token.Date()
	if err != nil {
		return s.State, in.reply.text(ctx, msgChooseOption)
	}
	s.Date = d
	h, m := timecalc.Elapsed(s.Date, s.Start, s.End)
	summary := fmt.Sprintf(msgSleepSummary, d.Format(timecalc.DateFormat), s.Start, s.End, h, m)
	return SleepQualityPick, in.reply.choices(ctx, summary, menu.QualityPicker())
}

func (f *SleepFlow) pickQuality(ctx context.Context, s *Session[SleepState], in input) (SleepState, error) {
	q, err := in.token.Quality()
	if err != nil {
		return s.State, in.reply.text(ctx, msgChooseOption)
	}

	hours, minutes := timecalc.Elapsed(s.Date, s.Start, s.End)
	r := &model.SleepRecord{
		UserID:          s.UserID,
		UserName:        s.UserName,
		Date:            s.Date.Format(timecalc.DateFormat),
		StartTime:       s.Start.String(),
		EndTime:         s.End.String(),
		DurationHours:   hours,
		DurationMinutes: minutes,
		Quality:         q,
	}
	if err := f.repo.AddSleep(ctx, r); err != nil {
		return s.State, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	logger.Info("sleep recorded", "user", s.UserID, "id", r.ID, "quality", r.Quality, "date", r.Date, "req", requestID(ctx))

	return SleepCommitted, in.reply.text(ctx, fmt.Sprintf(msgSleepRecorded,
		r.UserName, r.Date, r.StartTime, r.EndTime, hours, minutes, q.Label()))
}
