package services

// Submission is the parsed form of a POST /upload request.
type Submission interface {
	isSubmission()
}

// TextSubmission is the step-one form: free text echoed back.
type TextSubmission struct {
	Value string
}

// FileSubmission is the step-two form: a résumé to extract and store.
type FileSubmission struct {
	Data     []byte
	FileName string
	MimeType string
}

// UnsupportedSubmission covers every other request shape.
type UnsupportedSubmission struct{}

func (TextSubmission) isSubmission()        {}
func (FileSubmission) isSubmission()        {}
func (UnsupportedSubmission) isSubmission() {}
