package bank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Submission is one student answer to be graded against a bank question.
type Submission struct {
	QuestionID string
	Answer     string
}

// LoadSubmissions reads submissions from a CSV file with question_id and
// answer columns.
func LoadSubmissions(path string) ([]Submission, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open submissions: %w", err)
	}
	defer f.Close()

	subs, err := ReadSubmissions(f)
	if err != nil {
		return nil, fmt.Errorf("read submissions %s: %w", path, err)
	}
	return subs, nil
}

// ReadSubmissions parses submissions from CSV data. Answers are kept
// verbatim; grading owns all normalization.
func ReadSubmissions(r io.Reader) ([]Submission, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idCol, answerCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question_id":
			idCol = i
		case "answer":
			answerCol = i
		}
	}
	if idCol < 0 || answerCol < 0 {
		return nil, fmt.Errorf("submissions need question_id and answer columns, got %v", header)
	}

	var subs []Submission
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if idCol >= len(record) {
			return nil, fmt.Errorf("row %d: missing question_id", row)
		}
		sub := Submission{QuestionID: strings.TrimSpace(record[idCol])}
		if answerCol < len(record) {
			sub.Answer = record[answerCol]
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
