package submission

import "github.com/file-analyzer/backend/internal/models"

// Button labels.
const (
	LabelDefault   = "Upload & Analyze"
	LabelReady     = "Analyze File"
	LabelAnalyzing = "Analyzing..."
)

// Snapshot is the controller data a View is computed from.
type Snapshot struct {
	State    models.SubmissionState
	FileName string
	Result   *models.AnalysisResult
	Error    string
}

// Render maps a snapshot to what the page shows. It is the only place
// affordances are decided.
func Render(s Snapshot) models.View {
	v := models.View{
		State:    s.State,
		FileName: s.FileName,
	}

	switch s.State {
	case models.SubmissionIdle:
		v.ButtonLabel = LabelDefault
	case models.SubmissionEncoding, models.SubmissionRequesting:
		v.ButtonLabel = LabelAnalyzing
	case models.SubmissionSuccess:
		v.ButtonLabel = LabelReady
		v.ButtonEnabled = true
		if s.Result != nil {
			res := *s.Result
			v.Result = &res
			v.ResultVisible = true
			v.ResultLines = []string{
				"File Type: " + res.FileType,
				"Summary: " + res.Summary,
			}
		}
	case models.SubmissionFailed:
		v.ButtonLabel = LabelReady
		v.ButtonEnabled = true
		v.Error = s.Error
	default:
		v.ButtonLabel = LabelReady
		v.ButtonEnabled = true
	}

	return v
}
