package questions

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pavelanni/feedback/internal/model"
)

const maxLineSize = 1024 * 1024

// SkipRules decides which lines of a question sheet are not questions.
type SkipRules struct {
	HeadingPrefixes []string // case-sensitive prefix match
	SeparatorPrefix string
	Markers         []string // substring match, e.g. the venue line
}

// DefaultSkipRules matches the layout of the training feedback sheet.
var DefaultSkipRules = SkipRules{
	HeadingPrefixes: []string{"SECTION", "TRAINING", "Trainer", "Mode", "FEEDBACK"},
	SeparatorPrefix: "-",
	Markers:         []string{"MEERUT"},
}

// Skip reports whether line should be dropped instead of becoming a question.
func (r SkipRules) Skip(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	for _, p := range r.HeadingPrefixes {
		if p != "" && strings.HasPrefix(line, p) {
			return true
		}
	}
	if r.SeparatorPrefix != "" && strings.HasPrefix(line, r.SeparatorPrefix) {
		return true
	}
	for _, m := range r.Markers {
		if m != "" && strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// Parse reads question lines from r in order. Kept lines are numbered from 1
// and stored untrimmed.
func Parse(r io.Reader, rules SkipRules) ([]model.Question, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var qs []model.Question
	for scanner.Scan() {
		line := scanner.Text()
		if rules.Skip(line) {
			continue
		}
		qs = append(qs, model.Question{ID: len(qs) + 1, Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return qs, nil
}

// Load parses the question file at path. An unreadable file is logged and
// yields no questions so the phase can still run.
func Load(path string, rules SkipRules) []model.Question {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("question file unreadable, phase has no questions", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	qs, err := Parse(f, rules)
	if err != nil {
		slog.Warn("question file unreadable, phase has no questions", "path", path, "error", err)
		return nil
	}
	slog.Info("loaded questions", "path", path, "count", len(qs))
	return qs
}
