package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/menu"
	"github.com/rcliao/tracker-agent/internal/model"
	"github.com/rcliao/tracker-agent/internal/timecalc"
)

// StudyState is a state of the study flow.
type StudyState int

const (
	StudyStart StudyState = iota
	StudyDisciplineChoice
	StudyDisciplineInput
	StudyStartTimeInput
	StudyEndTimeInput
	StudyDatePick
	StudyPerformancePick
	StudyCommitted
	StudyCancelled
)

var studyStateNames = map[StudyState]string{
	StudyStart:            "start",
	StudyDisciplineChoice: "discipline_choice",
	StudyDisciplineInput:  "discipline_input",
	StudyStartTimeInput:   "start_time_input",
	StudyEndTimeInput:     "end_time_input",
	StudyDatePick:         "date_pick",
	StudyPerformancePick:  "performance_pick",
	StudyCommitted:        "committed",
	StudyCancelled:        "cancelled",
}

func (s StudyState) String() string { return studyStateNames[s] }

// StudyFlow records a study session: discipline, start, end, date and
// performance.
type StudyFlow struct {
	machine[StudyState]
	repo Repository
	now  func() time.Time
}

// NewStudyFlow returns a study flow persisting to repo. now supplies the
// current time for the date picker.
func NewStudyFlow(repo Repository, now func() time.Time) *StudyFlow {
	f := &StudyFlow{repo: repo, now: now}
	f.machine = machine[StudyState]{
		kind:      FlowStudy,
		sessions:  NewSessionStore[StudyState](),
		committed: StudyCommitted,
		cancelled: StudyCancelled,
		names:     studyStateNames,
	}
	f.table = map[StudyState]map[EventKind]transition[StudyState]{
		StudyDisciplineChoice: {EventChoice: f.chooseDiscipline},
		StudyDisciplineInput:  {EventText: f.typeDiscipline},
		StudyStartTimeInput:   {EventText: f.startTime},
		StudyEndTimeInput:     {EventText: f.endTime},
		StudyDatePick:         {EventChoice: f.pickDate},
		StudyPerformancePick:  {EventChoice: f.pickPerformance},
	}
	return f
}

// Sessions exposes the flow's session store.
func (f *StudyFlow) Sessions() *SessionStore[StudyState] { return f.sessions }

// begin starts a new session, replacing any unfinished one, and offers the
// user's recent disciplines when there are any.
func (f *StudyFlow) begin(ctx context.Context, in input) error {
	s := f.sessions.Begin(in.user.ID, in.user.Name, in.reply.chatID)
	s.State = StudyStart
	in.reply.seq = s.seq

	recent, err := f.repo.RecentDisciplines(ctx, in.user.ID, menu.MaxRecentDisciplines)
	if err != nil {
		f.sessions.Discard(in.user.ID)
		err = fmt.Errorf("%w: %v", ErrStorage, err)
		logger.Error("flow abandoned", "flow", f.kind, "user", in.user.ID, "req", requestID(ctx), "error", err)
		if replyErr := in.reply.text(ctx, msgFailure); replyErr != nil {
			return errors.Join(err, replyErr)
		}
		return err
	}

	if len(recent) == 0 {
		s.State = StudyDisciplineInput
		return in.reply.text(ctx, msgAskDiscipline)
	}
	s.Offered = recent
	s.State = StudyDisciplineChoice
	return in.reply.choices(ctx, msgPickDiscipline, menu.DisciplinePicker(recent))
}

func (f *StudyFlow) chooseDiscipline(ctx context.Context, s *Session[StudyState], in input) (StudyState, error) {
	switch in.token.Kind {
	case menu.KindNewDiscipline:
		return StudyDisciplineInput, in.reply.text(ctx, msgTypeDiscipline)
	case menu.KindDiscipline:
		i, err := in.token.Index()
		if err != nil || i >= len(s.Offered) {
			return s.State, in.reply.text(ctx, msgChooseOption)
		}
		s.Discipline = s.Offered[i]
		return StudyStartTimeInput, in.reply.text(ctx, fmt.Sprintf(msgDisciplineSelected, s.Discipline))
	default:
		return s.State, in.reply.text(ctx, msgChooseOption)
	}
}

func (f *StudyFlow) typeDiscipline(ctx context.Context, s *Session[StudyState], in input) (StudyState, error) {
	d := strings.TrimSpace(in.text)
	if d == "" {
		return s.State, in.reply.text(ctx, msgAskDiscipline)
	}
	s.Discipline = d
	return StudyStartTimeInput, in.reply.text(ctx, fmt.Sprintf(msgDisciplineTyped, d))
}

func (f *StudyFlow) startTime(ctx context.Context, s *Session[StudyState], in input) (StudyState, error) {
	t, err := timecalc.ParseTimeOfDay(in.text)
	if err != nil {
		return s.State, in.reply.text(ctx, msgInvalidTime)
	}
	s.Start = t
	return StudyEndTimeInput, in.reply.text(ctx, fmt.Sprintf(msgStudyStartSet, t))
}

func (f *StudyFlow) endTime(ctx context.Context, s *Session[StudyState], in input) (StudyState, error) {
	t, err := timecalc.ParseTimeOfDay(in.text)
	if err != nil {
		return s.State, in.reply.text(ctx, msgInvalidTime)
	}
	s.End = t
	return StudyDatePick, in.reply.choices(ctx, msgStudyPickDate, menu.DatePicker(f.now()))
}

func (f *StudyFlow) pickDate(ctx context.Context, s *Session[StudyState], in input) (StudyState, error) {
	d, err := in.token.Date()
	if err != nil {
		return s.State, in.reply.text(ctx, msgChooseOption)
	}
	s.Date = d
	return StudyPerformancePick, in.reply.choices(ctx, msgPickPerformance, menu.PerformancePicker())
}

func (f *StudyFlow) pickPerformance(ctx context.Context, s *Session[StudyState], in input) (StudyState, error) {
	perf, err := in.token.Performance()
	if err != nil {
		return s.State, in.reply.text(ctx, msgChooseOption)
	}

	hours, minutes := timecalc.Elapsed(s.Date, s.Start, s.End)
	r := &model.StudyRecord{
		UserID:          s.UserID,
		UserName:        s.UserName,
		Date:            s.Date.Format(timecalc.DateFormat),
		StartTime:       s.Start.String(),
		EndTime:         s.End.String(),
		DurationHours:   hours,
		DurationMinutes: minutes,
		Discipline:      s.Discipline,
		Performance:     perf,
	}
	if err := f.repo.AddStudy(ctx, r); err != nil {
		return s.State, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	logger.Info("study recorded", "user", s.UserID, "id", r.ID, "discipline", r.Discipline, "date", r.Date, "req", requestID(ctx))

	return StudyCommitted, in.reply.text(ctx, fmt.Sprintf(msgStudyRecorded,
		r.UserName, r.Discipline, r.Date, r.StartTime, r.EndTime, hours, minutes, r.Performance))
}
