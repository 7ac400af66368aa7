package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pavelanni/feedback/internal/model"
	"github.com/pavelanni/feedback/internal/program"
	"github.com/pavelanni/feedback/internal/questions"
)

const (
	// DateLayout is the date format used in config files.
	DateLayout = "2006-01-02"

	// DefaultPhase names the only phase of the built-in program.
	DefaultPhase = "Mid-term"
)

// StudentConfig is one roster entry.
type StudentConfig struct {
	RollNo string `mapstructure:"roll_no"`
	Name   string `mapstructure:"name"`
}

// TeacherConfig is one teacher entry.
type TeacherConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// PhaseConfig declares a feedback phase and its question source.
type PhaseConfig struct {
	Name      string `mapstructure:"name"`
	Date      string `mapstructure:"date"` // empty means today
	Questions string `mapstructure:"questions"`
}

// ProgramConfig models the "program" section of the config file.
type ProgramConfig struct {
	Name       string          `mapstructure:"name"`
	Start      string          `mapstructure:"start"`
	End        string          `mapstructure:"end"`
	Curriculum string          `mapstructure:"curriculum"`
	Students   []StudentConfig `mapstructure:"students"`
	Teachers   []TeacherConfig `mapstructure:"teachers"`
	Phases     []PhaseConfig   `mapstructure:"phases"`
}

// Default returns the built-in program used when none is configured. Its
// single DefaultPhase reads questionsPath.
func Default(questionsPath string) ProgramConfig {
	return ProgramConfig{
		Name:       "Wipro TalentNext",
		Start:      "2025-06-23",
		End:        "2025-08-31",
		Curriculum: "Core Java, OOP, Collections",
		Students: []StudentConfig{
			{RollNo: "S001", Name: "Gaurav Mishra"},
			{RollNo: "S002", Name: "Manish"},
		},
		Teachers: []TeacherConfig{
			{ID: "T001", Name: "Mr. Amol Sharma"},
		},
		Phases: []PhaseConfig{
			{Name: DefaultPhase, Questions: questionsPath},
		},
	}
}

// LoadProgram reads the "program" section from v, falling back to Default.
// Phases without a question path read cfg.QuestionsPath.
func LoadProgram(v *viper.Viper, cfg model.CollectConfig) (ProgramConfig, error) {
	if !v.IsSet("program") {
		return Default(cfg.QuestionsPath), nil
	}
	var pc ProgramConfig
	if err := v.UnmarshalKey("program", &pc); err != nil {
		return pc, fmt.Errorf("decode program config: %w", err)
	}
	for i := range pc.Phases {
		if pc.Phases[i].Questions == "" {
			pc.Phases[i].Questions = cfg.QuestionsPath
		}
	}
	return pc, nil
}

// SkipRules reads the "skip" section from v. Unset keys keep their defaults.
func SkipRules(v *viper.Viper) questions.SkipRules {
	rules := questions.DefaultSkipRules
	if v.IsSet("skip.headings") {
		rules.HeadingPrefixes = v.GetStringSlice("skip.headings")
	}
	if v.IsSet("skip.separator") {
		rules.SeparatorPrefix = v.GetString("skip.separator")
	}
	if v.IsSet("skip.markers") {
		rules.Markers = v.GetStringSlice("skip.markers")
	}
	return rules
}

// Build turns a program config into a Program, loading each phase's
// questions once.
func Build(pc ProgramConfig, rules questions.SkipRules, rt program.Runtime, today time.Time) (*program.Program, error) {
	start, err := parseDate(pc.Start)
	if err != nil {
		return nil, fmt.Errorf("program start: %w", err)
	}
	end, err := parseDate(pc.End)
	if err != nil {
		return nil, fmt.Errorf("program end: %w", err)
	}

	var roster program.Roster
	for _, s := range pc.Students {
		roster.Students = append(roster.Students, model.Student{RollNo: s.RollNo, Name: s.Name})
	}
	for _, t := range pc.Teachers {
		roster.Teachers = append(roster.Teachers, model.Teacher{ID: t.ID, Name: t.Name})
	}
	for _, phc := range pc.Phases {
		date := today
		if phc.Date != "" {
			if date, err = parseDate(phc.Date); err != nil {
				return nil, fmt.Errorf("phase %q date: %w", phc.Name, err)
			}
		}
		ph := program.NewPhase(phc.Name, date)
		ph.LoadQuestions(phc.Questions, rules)
		roster.Phases = append(roster.Phases, ph)
	}

	return program.New(program.Info{
		Name:       pc.Name,
		Start:      start,
		End:        end,
		Curriculum: pc.Curriculum,
	}, roster, rt)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}
