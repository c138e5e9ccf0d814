package models

// SubmissionState is the lifecycle state of a submission surface.
type SubmissionState string

const (
	SubmissionIdle                  SubmissionState = "idle"
	SubmissionAwaitingFileSelection SubmissionState = "awaiting_file_selection"
	SubmissionEncoding              SubmissionState = "encoding"
	SubmissionRequesting            SubmissionState = "requesting"
	SubmissionSuccess               SubmissionState = "success"
	SubmissionFailed                SubmissionState = "failed"
)

// InFlight reports whether an attempt is encoding or requesting.
func (s SubmissionState) InFlight() bool {
	return s == SubmissionEncoding || s == SubmissionRequesting
}

// View is everything the page needs to draw a surface.
type View struct {
	State         SubmissionState `json:"state" msgpack:"state"`
	FileName      string          `json:"fileName,omitempty" msgpack:"fileName,omitempty"`
	ButtonLabel   string          `json:"buttonLabel" msgpack:"buttonLabel"`
	ButtonEnabled bool            `json:"buttonEnabled" msgpack:"buttonEnabled"`
	ResultVisible bool            `json:"resultVisible" msgpack:"resultVisible"`
	ResultLines   []string        `json:"resultLines,omitempty" msgpack:"resultLines,omitempty"`
	Result        *AnalysisResult `json:"result,omitempty" msgpack:"result,omitempty"`
	Error         string          `json:"error,omitempty" msgpack:"error,omitempty"`
}
