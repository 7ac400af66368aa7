package program

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pavelanni/feedback/internal/model"
)

var (
	// ErrDuplicateRollNo is returned when two students share a roll number.
	ErrDuplicateRollNo = errors.New("duplicate roll number")
	// ErrPathInName is returned when a student's name or roll number would
	// escape the feedback directory once used as a file name.
	ErrPathInName = errors.New("path separator in student name or roll number")
)

// Info describes a course run.
type Info struct {
	Name       string
	Start      time.Time
	End        time.Time
	Curriculum string
}

// Roster lists the people and phases attached to a program.
type Roster struct {
	Students []model.Student
	Teachers []model.Teacher
	Phases   []*Phase
}

// Program is a training course run with its roster and feedback phases.
type Program struct {
	info     Info
	students []model.Student
	teachers []model.Teacher
	phases   []*Phase
	rt       Runtime
}

// New builds a program. Roll numbers must be unique within the roster and
// neither names nor roll numbers may contain path separators.
func New(info Info, roster Roster, rt Runtime) (*Program, error) {
	seen := make(map[string]bool, len(roster.Students))
	for _, s := range roster.Students {
		if strings.ContainsAny(s.Name+s.RollNo, `/\`) {
			return nil, fmt.Errorf("%w: %q %q", ErrPathInName, s.Name, s.RollNo)
		}
		if seen[s.RollNo] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRollNo, s.RollNo)
		}
		seen[s.RollNo] = true
	}
	return &Program{
		info:     info,
		students: append([]model.Student(nil), roster.Students...),
		teachers: append([]model.Teacher(nil), roster.Teachers...),
		phases:   append([]*Phase(nil), roster.Phases...),
		rt:       rt,
	}, nil
}

// Info returns the program description.
func (p *Program) Info() Info { return p.info }

// Students returns a copy of the roster in order.
func (p *Program) Students() []model.Student {
	return append([]model.Student(nil), p.students...)
}

// Teachers returns a copy of the teacher list.
func (p *Program) Teachers() []model.Teacher {
	return append([]model.Teacher(nil), p.teachers...)
}

// Phases returns the program's phases in configured order.
func (p *Program) Phases() []*Phase {
	return append([]*Phase(nil), p.phases...)
}

// FindPhase returns the first phase whose name matches ignoring case.
func (p *Program) FindPhase(name string) (*Phase, bool) {
	for _, ph := range p.phases {
		if strings.EqualFold(ph.name, name) {
			return ph, true
		}
	}
	return nil, false
}

// FindStudent returns the student with exactly this roll number.
func (p *Program) FindStudent(rollNo string) (model.Student, bool) {
	for _, s := range p.students {
		if s.RollNo == rollNo {
			return s, true
		}
	}
	return model.Student{}, false
}

// CollectFromStudent runs the named phase for one student. An unknown
// phase is logged and nothing else happens.
func (p *Program) CollectFromStudent(ctx context.Context, phaseName string, s model.Student) {
	ph, ok := p.FindPhase(phaseName)
	if !ok {
		slog.Warn("feedback phase not found", "phase", phaseName)
		return
	}
	ph.takeFeedback(ctx, s, p.rt)
}

// CollectFromAll runs the named phase for every student in roster order,
// one after another.
func (p *Program) CollectFromAll(ctx context.Context, phaseName string) {
	ph, ok := p.FindPhase(phaseName)
	if !ok {
		slog.Warn("feedback phase not found", "phase", phaseName)
		return
	}
	for _, s := range p.students {
		ph.takeFeedback(ctx, s, p.rt)
	}
}
