package feedback

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pavelanni/feedback/internal/model"
)

// DefaultDir is where feedback files go unless configured otherwise.
const DefaultDir = "feedbacks"

// FileName returns the per-student file name, e.g. feedback_ManishS002.txt.
func FileName(s model.Student) string {
	return "feedback_" + s.Name + s.RollNo + ".txt"
}

// Encode writes each answer as its question line, an "Answer: " line and a
// blank line. Nothing is escaped.
func Encode(w io.Writer, rec model.FeedbackRecord) error {
	for _, a := range rec.Answers {
		if _, err := fmt.Fprintf(w, "%s\nAnswer: %s\n\n", a.Question.Text, a.Response); err != nil {
			return err
		}
	}
	return nil
}

// Writer stores feedback records as text files in a single directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer for dir. The directory is never created.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns the file a record for s is written to.
func (w *Writer) Path(s model.Student) string {
	return filepath.Join(w.dir, FileName(s))
}

// Write replaces any existing file for the record's student.
func (w *Writer) Write(rec model.FeedbackRecord) (string, error) {
	path := w.Path(rec.Student)
	f, err := os.Create(path)
	if err != nil {
		return path, fmt.Errorf("create feedback file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, rec); err != nil {
		f.Close()
		return path, fmt.Errorf("write feedback file: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return path, fmt.Errorf("write feedback file: %w", err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("close feedback file: %w", err)
	}
	return path, nil
}
