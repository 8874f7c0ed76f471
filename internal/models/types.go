package models

// Response is one submitted form entry. Records are created once, never
// edited, and deleted either individually or by clearing the whole store.
type Response struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"` // display string, YYYY-MM-DD HH:MM:SS
	Question1 string `json:"question1"`
	Question2 string `json:"question2"`
	// MultipleOption holds the single selected value of the closed option set.
	MultipleOption string `json:"multiple_option_answer"`
	// YesNo is "yes", "no" or empty when the respondent skipped the question.
	YesNo string `json:"yes_no_answer"`
	// CheckboxAnswers keeps selection order; zero or more values.
	CheckboxAnswers []string `json:"checkbox_answers"`
	// UploadedFile is the relative path of the stored upload, empty when no
	// file was submitted. It references the upload directory but does not own
	// the file; the coordinator does.
	UploadedFile string `json:"uploaded_file,omitempty"`
	// OriginalFilename is kept for display only and never used to build paths.
	OriginalFilename string `json:"original_filename,omitempty"`
}
