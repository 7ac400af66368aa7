package model

import "time"

// Question is one prompt of a phase's question set.
type Question struct {
	ID   int    `json:"id" yaml:"id"` // 1-based position in the source file
	Text string `json:"text" yaml:"text"`
}

// Answer pairs a student's response with the question it responds to.
type Answer struct {
	Question Question `json:"question" yaml:"question"`
	Response string   `json:"response" yaml:"response"`
}

// Student is a member of a program's roster.
type Student struct {
	RollNo string `json:"roll_no" yaml:"roll_no"`
	Name   string `json:"name" yaml:"name"`
}

// Teacher is a trainer attached to a program.
type Teacher struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// FeedbackRecord is one student's completed set of answers for a phase.
type FeedbackRecord struct {
	Student     Student   `json:"student" yaml:"student"`
	Answers     []Answer  `json:"answers" yaml:"answers"`
	SubmittedAt time.Time `json:"submitted_at" yaml:"submitted_at"`
}

// Clone returns a copy that shares no slice storage with r.
func (r FeedbackRecord) Clone() FeedbackRecord {
	out := r
	if r.Answers != nil {
		out.Answers = make([]Answer, len(r.Answers))
		copy(out.Answers, r.Answers)
	}
	return out
}

// CollectConfig holds runtime collection parameters set via CLI flags.
type CollectConfig struct {
	Phase         string // phase name, matched case-insensitively
	QuestionsPath string // question source for the built-in phase
	OutputDir     string // must already exist
	Lang          string // prompt language (en, ru)
}
