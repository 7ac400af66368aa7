package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pavelanni/feedback/internal/i18n"
	"github.com/pavelanni/feedback/internal/model"
)

// ErrInterrupted is returned when the answer source ends before every
// question has been answered.
var ErrInterrupted = errors.New("answer input closed before all questions were answered")

// Prompter asks a single question and blocks until the response arrives.
type Prompter interface {
	Ask(ctx context.Context, q model.Question) (string, error)
}

// Console prompts on out and reads one line per answer from in.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a line-oriented prompter.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Ask prints the question and returns the next input line verbatim, minus
// its line separator. Empty lines are valid answers.
func (c *Console) Ask(ctx context.Context, q model.Question) (string, error) {
	if _, err := io.WriteString(c.out, i18n.Td(ctx, "QuestionPrompt", map[string]any{"Text": q.Text})); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Collector gathers one student's answers to a question list.
type Collector struct {
	prompter Prompter
	out      io.Writer
	now      func() time.Time
}

// New creates a Collector that writes its banner to out.
func New(p Prompter, out io.Writer) *Collector {
	return &Collector{prompter: p, out: out, now: time.Now}
}

// Collect asks every question in order and bundles the responses. If the
// prompter fails part way the answers given so far are discarded and no
// record is produced; the error only ends this student's collection, so a
// caller looping over a roster still prompts the students after it.
func (c *Collector) Collect(ctx context.Context, s model.Student, qs []model.Question) (model.FeedbackRecord, error) {
	fmt.Fprintln(c.out, i18n.Td(ctx, "GivingFeedback", map[string]any{"Name": s.Name}))

	answers := make([]model.Answer, 0, len(qs))
	for _, q := range qs {
		resp, err := c.prompter.Ask(ctx, q)
		if err != nil {
			return model.FeedbackRecord{}, fmt.Errorf("question %d: %w", q.ID, err)
		}
		answers = append(answers, model.Answer{Question: q, Response: resp})
	}

	return model.FeedbackRecord{
		Student:     s,
		Answers:     answers,
		SubmittedAt: c.now(),
	}, nil
}
