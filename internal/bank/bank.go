// Package bank loads question configurations from the spreadsheet-like
// CSV format used by the upload collaborator. Concept names arrive as a
// comma-separated list; keyword groups are semicolon-separated, with the
// keywords of one group comma-separated inside it. Names and groups are
// paired positionally.
package bank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pavelanni/autograder/internal/model"
)

// Default max scores applied when the Max_Score column is empty.
const (
	defaultDescriptiveScore = 10.0
	defaultMCQScore         = 1.0
)

// Load reads a question bank from a CSV file.
func Load(path string) ([]model.QuestionConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	configs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	return configs, nil
}

// Read parses question configs from CSV data. The first row is a header;
// column names are matched case-insensitively. Every row is validated and
// errors carry the offending row number.
func Read(r io.Reader) ([]model.QuestionConfig, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"question_id", "type"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: question bank is missing column %q", model.ErrConfig, required)
		}
	}

	var configs []model.QuestionConfig
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		q, err := parseRow(cols, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		configs = append(configs, q)
	}
	return configs, nil
}

func parseRow(cols map[string]int, record []string) (model.QuestionConfig, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	q := model.QuestionConfig{
		QuestionID:    field("question_id"),
		Type:          model.QuestionType(strings.ToLower(field("type"))),
		TeacherAnswer: field("teacher_answer"),
		CorrectOption: field("correct_option"),
		CorrectAnswer: field("correct_answer"),
		Concepts:      parseConcepts(field("concept_names"), field("concept_keywords")),
	}

	if raw := field("max_score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("question %q: bad max score %q: %w", q.QuestionID, raw, err)
		}
		q.MaxScore = score
	} else if q.Type == model.TypeMCQ {
		q.MaxScore = defaultMCQScore
	} else {
		q.MaxScore = defaultDescriptiveScore
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

// parseConcepts zips concept names with keyword groups. A name without a
// matching group (or the other way around) is dropped, as the upload
// collaborator has always done.
func parseConcepts(namesRaw, keywordsRaw string) []model.Concept {
	if namesRaw == "" || keywordsRaw == "" {
		return nil
	}
	names := splitClean(namesRaw, ",")
	groups := splitClean(keywordsRaw, ";")

	n := len(names)
	if len(groups) < n {
		n = len(groups)
	}
	concepts := make([]model.Concept, 0, n)
	for i := 0; i < n; i++ {
		keywords := splitClean(groups[i], ",")
		if len(keywords) == 0 {
			continue
		}
		concepts = append(concepts, model.Concept{
			Name:     names[i],
			Keywords: keywords,
			Weight:   1.0,
		})
	}
	return concepts
}

func splitClean(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
