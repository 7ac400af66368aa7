package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/pavelanni/feedback/internal/model"
	"github.com/pavelanni/feedback/internal/program"
	"github.com/pavelanni/feedback/internal/questions"
)

func quietLogs(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func viperFromYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	return v
}

var collectCfg = model.CollectConfig{Phase: "Mid-term", QuestionsPath: "feedback_questions.txt"}

func TestLoadProgramDefault(t *testing.T) {
	pc, err := LoadProgram(viper.New(), collectCfg)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if !reflect.DeepEqual(pc, Default("feedback_questions.txt")) {
		t.Errorf("expected default program, got %+v", pc)
	}
	if len(pc.Students) != 2 || pc.Students[1].RollNo != "S002" {
		t.Errorf("unexpected default roster %+v", pc.Students)
	}
}

func TestDefaultPhaseIgnoresRequestedPhase(t *testing.T) {
	cfg := model.CollectConfig{Phase: "Final", QuestionsPath: "feedback_questions.txt"}
	pc, err := LoadProgram(viper.New(), cfg)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if len(pc.Phases) != 1 || pc.Phases[0].Name != DefaultPhase {
		t.Fatalf("expected only the %q phase, got %+v", DefaultPhase, pc.Phases)
	}

	quietLogs(t)
	p, err := Build(pc, questions.DefaultSkipRules, program.Runtime{}, time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := p.FindPhase("Final"); ok {
		t.Error("built-in program must not contain a Final phase")
	}
}

func TestLoadProgramFromFile(t *testing.T) {
	v := viperFromYAML(t, `
program:
  name: Go Bootcamp
  start: "2026-01-05"
  end: "2026-03-27"
  curriculum: Go, testing
  students:
    - roll_no: G01
      name: Asha
    - roll_no: G02
      name: Ravi
  teachers:
    - id: T9
      name: Ms. Rao
  phases:
    - name: Mid-term
      date: "2026-02-13"
    - name: Final
      questions: final.txt
`)
	pc, err := LoadProgram(v, collectCfg)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if pc.Name != "Go Bootcamp" || pc.Curriculum != "Go, testing" {
		t.Errorf("unexpected program %+v", pc)
	}
	wantStudents := []StudentConfig{{RollNo: "G01", Name: "Asha"}, {RollNo: "G02", Name: "Ravi"}}
	if !reflect.DeepEqual(pc.Students, wantStudents) {
		t.Errorf("students = %+v, want %+v", pc.Students, wantStudents)
	}
	if len(pc.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(pc.Phases))
	}
	if pc.Phases[0].Questions != "feedback_questions.txt" {
		t.Errorf("phase without questions should use the flag path, got %q", pc.Phases[0].Questions)
	}
	if pc.Phases[1].Questions != "final.txt" {
		t.Errorf("unexpected final questions path %q", pc.Phases[1].Questions)
	}
}

func TestSkipRules(t *testing.T) {
	if got := SkipRules(viper.New()); !reflect.DeepEqual(got, questions.DefaultSkipRules) {
		t.Errorf("expected defaults, got %+v", got)
	}

	v := viperFromYAML(t, `
skip:
  headings: ["#", "PART"]
  markers: []
`)
	got := SkipRules(v)
	if !reflect.DeepEqual(got.HeadingPrefixes, []string{"#", "PART"}) {
		t.Errorf("headings = %v", got.HeadingPrefixes)
	}
	if got.SeparatorPrefix != "-" {
		t.Errorf("separator should keep its default, got %q", got.SeparatorPrefix)
	}
	if len(got.Markers) != 0 {
		t.Errorf("markers = %v, want none", got.Markers)
	}
}

func TestBuild(t *testing.T) {
	quietLogs(t)
	path := filepath.Join(t.TempDir(), "q.txt")
	if err := os.WriteFile(path, []byte("SECTION A\nQ1\nQ2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	today := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	p, err := Build(Default(path), questions.DefaultSkipRules, program.Runtime{}, today)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	info := p.Info()
	if info.Name != "Wipro TalentNext" || info.Start.Format(DateLayout) != "2025-06-23" {
		t.Errorf("unexpected info %+v", info)
	}
	ph, ok := p.FindPhase("mid-term")
	if !ok {
		t.Fatal("phase not found")
	}
	if !ph.Date().Equal(today) {
		t.Errorf("phase date = %v, want %v", ph.Date(), today)
	}
	if len(ph.Questions()) != 2 {
		t.Errorf("expected 2 questions, got %d", len(ph.Questions()))
	}
	if len(p.Teachers()) != 1 {
		t.Errorf("expected 1 teacher, got %d", len(p.Teachers()))
	}
}

func TestBuildErrors(t *testing.T) {
	quietLogs(t)
	today := time.Now()

	bad := Default("missing.txt")
	bad.Start = "23/06/2025"
	if _, err := Build(bad, questions.DefaultSkipRules, program.Runtime{}, today); err == nil {
		t.Error("expected error for malformed start date")
	}

	dup := Default("missing.txt")
	dup.Students = append(dup.Students, StudentConfig{RollNo: "S001", Name: "Copy"})
	_, err := Build(dup, questions.DefaultSkipRules, program.Runtime{}, today)
	if !errors.Is(err, program.ErrDuplicateRollNo) {
		t.Errorf("expected ErrDuplicateRollNo, got %v", err)
	}
}
