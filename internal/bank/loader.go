package bank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/xuri/excelize/v2"
)

// Column names, matched after trimming and lower-casing the header.
const (
	colQuestion = "question"
	colOptionA  = "option a"
	colOptionB  = "option b"
	colOptionC  = "option c"
	colOptionD  = "option d"
	colAnswer   = "answer"
)

var requiredColumns = []string{colQuestion, colOptionA, colOptionB, colOptionC, colOptionD, colAnswer}

var answerLetters = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}

// ErrEmptySheet is returned for a source without a header row.
var ErrEmptySheet = errors.New("source has no header row")

// ReadCSV parses a question table from r. Each data row yields one question
// tagged with topic.
func ReadCSV(r io.Reader, topic string) ([]model.Question, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows, topic)
}

// ReadXLSX parses a question table from the first sheet of an Excel workbook.
func ReadXLSX(path, topic string) ([]model.Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return parseRows(rows, topic)
}

// LoadFile reads a question table, choosing the parser by file extension.
func LoadFile(path, topic string) ([]model.Question, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		qs, err := ReadCSV(f, topic)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return qs, nil
	case ".xlsx":
		qs, err := ReadXLSX(path, topic)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return qs, nil
	default:
		return nil, fmt.Errorf("%s: unsupported file type %q", path, filepath.Ext(path))
	}
}

func parseRows(rows [][]string, topic string) ([]model.Question, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	questions := make([]model.Question, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		q := model.Question{
			Topic:    topic,
			Question: cell(colQuestion),
			Options:  [model.OptionCount]string{cell(colOptionA), cell(colOptionB), cell(colOptionC), cell(colOptionD)},
		}
		// An unknown letter leaves Answer empty; the row stays in the bank.
		if i, ok := answerLetters[strings.ToUpper(strings.TrimSpace(cell(colAnswer)))]; ok {
			q.Answer = q.Options[i]
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
