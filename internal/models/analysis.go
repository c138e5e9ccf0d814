package models

// EncodedPayload is the transport-safe form of one file.
type EncodedPayload struct {
	Data        string // base64, no data-URI prefix
	ContentType string
}

// AnalysisRequest is the JSON body posted to the analysis endpoint.
type AnalysisRequest struct {
	Body    string         `json:"body"`
	Headers RequestHeaders `json:"headers"`
}

// RequestHeaders carries the original file's MIME type.
type RequestHeaders struct {
	ContentType string `json:"content-type"`
}

// AnalysisResult is the parsed response of the analysis endpoint.
// Error is set when the service rejected the input.
type AnalysisResult struct {
	FileType string `json:"fileType,omitempty" msgpack:"fileType,omitempty"`
	Summary  string `json:"summary,omitempty" msgpack:"summary,omitempty"`
	Error    string `json:"error,omitempty" msgpack:"error,omitempty"`
}
