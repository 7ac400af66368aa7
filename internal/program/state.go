package program

import (
	"time"

	"github.com/pavelanni/feedback/internal/model"
)

const dateLayout = "2006-01-02"

// PhaseState is a printable snapshot of a phase.
type PhaseState struct {
	Name      string                 `yaml:"name"`
	Date      string                 `yaml:"date"`
	Questions []model.Question       `yaml:"questions"`
	Feedback  []model.FeedbackRecord `yaml:"feedback,omitempty"`
}

// State is a printable snapshot of a program.
type State struct {
	Name       string          `yaml:"name"`
	Start      string          `yaml:"start"`
	End        string          `yaml:"end"`
	Curriculum string          `yaml:"curriculum"`
	Students   []model.Student `yaml:"students"`
	Teachers   []model.Teacher `yaml:"teachers"`
	Phases     []PhaseState    `yaml:"phases"`
}

// Snapshot copies the program's current state.
func (p *Program) Snapshot() State {
	st := State{
		Name:       p.info.Name,
		Start:      formatDate(p.info.Start),
		End:        formatDate(p.info.End),
		Curriculum: p.info.Curriculum,
		Students:   p.Students(),
		Teachers:   p.Teachers(),
	}
	for _, ph := range p.phases {
		st.Phases = append(st.Phases, PhaseState{
			Name:      ph.name,
			Date:      formatDate(ph.date),
			Questions: ph.Questions(),
			Feedback:  ph.Feedback(),
		})
	}
	return st
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
