package submission

import (
	"errors"
	"fmt"

	"github.com/file-analyzer/backend/internal/analysis"
	"github.com/file-analyzer/backend/internal/encoder"
)

// MsgServiceRejected is shown when the service reports an error without text.
const MsgServiceRejected = "The analysis service rejected the file"

// UserMessage converts a pipeline error into the text shown on the page.
func UserMessage(err error) string {
	var (
		readErr      *encoder.ReadError
		transportErr *analysis.TransportError
		protocolErr  *analysis.ProtocolError
		serviceErr   *analysis.ServiceError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &serviceErr):
		if serviceErr.Message == "" {
			return MsgServiceRejected
		}
		return serviceErr.Message
	case errors.As(err, &readErr):
		return fmt.Sprintf("Could not read the selected file: %v", readErr.Err)
	case errors.As(err, &transportErr):
		if transportErr.StatusCode == 0 {
			return "Analysis service unreachable, please try again"
		}
		return fmt.Sprintf("Analysis service unavailable (HTTP %d)", transportErr.StatusCode)
	case errors.As(err, &protocolErr):
		return "Unexpected response from the analysis service"
	default:
		return fmt.Sprintf("Analysis failed: %v", err)
	}
}
