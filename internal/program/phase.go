package program

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pavelanni/feedback/internal/i18n"
	"github.com/pavelanni/feedback/internal/model"
	"github.com/pavelanni/feedback/internal/questions"
)

// Phase is a named, dated feedback round with its own question set and
// response log.
type Phase struct {
	name      string
	date      time.Time
	questions []model.Question
	log       []model.FeedbackRecord
}

// NewPhase creates a phase with no questions.
func NewPhase(name string, date time.Time) *Phase {
	return &Phase{name: name, date: date}
}

// Name returns the phase name as configured.
func (ph *Phase) Name() string { return ph.name }

// Date returns the session date.
func (ph *Phase) Date() time.Time { return ph.date }

// LoadQuestions replaces the question set with the questions parsed from
// path and returns how many were loaded. An unreadable file leaves the phase
// with no questions.
func (ph *Phase) LoadQuestions(path string, rules questions.SkipRules) int {
	ph.questions = questions.Load(path, rules)
	return len(ph.questions)
}

// Questions returns a copy of the question set.
func (ph *Phase) Questions() []model.Question {
	out := make([]model.Question, len(ph.questions))
	copy(out, ph.questions)
	return out
}

// Feedback returns a copy of the records collected so far, oldest first.
func (ph *Phase) Feedback() []model.FeedbackRecord {
	out := make([]model.FeedbackRecord, len(ph.log))
	for i, rec := range ph.log {
		out[i] = rec.Clone()
	}
	return out
}

// takeFeedback collects s's answers, logs the record and persists it. A
// failed write is reported but the record stays in the log.
func (ph *Phase) takeFeedback(ctx context.Context, s model.Student, rt Runtime) {
	rec, err := rt.Collector.Collect(ctx, s, ph.Questions())
	if err != nil {
		slog.Error("feedback collection interrupted",
			"phase", ph.name, "roll_no", s.RollNo, "error", err)
		return
	}
	ph.log = append(ph.log, rec.Clone())

	path, err := rt.Writer.Write(rec)
	if err != nil {
		slog.Error("failed to write feedback",
			"phase", ph.name, "roll_no", s.RollNo, "path", path, "error", err)
		return
	}
	if rt.Out != nil {
		fmt.Fprintf(rt.Out, "\n%s\n", i18n.Td(ctx, "FeedbackSaved", map[string]any{"Path": path}))
	}
	slog.Debug("feedback saved", "phase", ph.name, "roll_no", s.RollNo, "path", path)
}

// Collector produces a feedback record for one student.
type Collector interface {
	Collect(ctx context.Context, s model.Student, qs []model.Question) (model.FeedbackRecord, error)
}

// RecordWriter persists a feedback record and reports where it went.
type RecordWriter interface {
	Write(rec model.FeedbackRecord) (string, error)
}

// Runtime carries the collaborators used while collecting feedback.
type Runtime struct {
	Collector Collector
	Writer    RecordWriter
	Out       io.Writer // operator stream for confirmations; may be nil
}
