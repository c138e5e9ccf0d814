package submission

import (
	"context"

	"github.com/file-analyzer/backend/internal/analysis"
	"github.com/file-analyzer/backend/internal/models"
)

// Run analyzes one file synchronously: encode, build the request, submit.
// A service-side rejection is returned as *analysis.ServiceError.
func Run(ctx context.Context, cfg Config, file *models.FileHandle) (*models.AnalysisResult, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	return execute(ctx, cfg, file, nil)
}

// execute is the single encode → request → interpret path. onEncoded runs
// after encoding succeeds and before the request is built.
func execute(ctx context.Context, cfg Config, file *models.FileHandle, onEncoded func(*models.EncodedPayload)) (*models.AnalysisResult, error) {
	if file == nil {
		return nil, ErrNoFileSelected
	}

	payload, err := cfg.Encoder.Encode(ctx, file)
	if err != nil {
		return nil, err
	}
	if onEncoded != nil {
		onEncoded(payload)
	}

	result, err := cfg.Analyzer.Submit(ctx, analysis.BuildRequest(payload), cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &analysis.ProtocolError{Reason: "empty result"}
	}
	if result.Error != "" {
		return nil, &analysis.ServiceError{Message: result.Error}
	}
	return result, nil
}
