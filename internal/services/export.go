package services

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/soaringjerry/formdrop/internal/models"
)

// ExportResponsesCSV renders all records into a CSV with one row per
// submission. Columns are fixed so downstream analysis stays stable across
// exports; checkbox selections are joined with a pipe inside one cell.
func ExportResponsesCSV(rs []models.Response) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"id", "timestamp", "question1", "question2",
		"multiple_option_answer", "yes_no_answer", "checkbox_answers",
		"uploaded_file", "original_filename",
	})
	for _, r := range rs {
		rec := []string{
			r.ID,
			r.Timestamp,
			r.Question1,
			r.Question2,
			r.MultipleOption,
			r.YesNo,
			strings.Join(r.CheckboxAnswers, " | "),
			r.UploadedFile,
			r.OriginalFilename,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
