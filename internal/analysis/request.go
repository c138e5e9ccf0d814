package analysis

import "github.com/file-analyzer/backend/internal/models"

// BuildRequest assembles the request body for one encoded file.
func BuildRequest(payload *models.EncodedPayload) *models.AnalysisRequest {
	return &models.AnalysisRequest{
		Body: payload.Data,
		Headers: models.RequestHeaders{
			ContentType: payload.ContentType,
		},
	}
}
