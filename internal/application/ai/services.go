package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/bryanwahyu/brainscan-api/internal/application"
	"github.com/bryanwahyu/brainscan-api/internal/domain/ai"
	"github.com/bryanwahyu/brainscan-api/internal/domain/analysis"
)

// Service runs one brain scan analysis per call. It keeps no per-request
// state and is safe for concurrent use.
type Service struct {
	client ai.Client
	clock  application.Clock
	logger *slog.Logger
}

// AnalyzeOutput carries the parsed result plus what was observed on the way.
type AnalyzeOutput struct {
	Result   analysis.Result
	Raw      string
	Fallback bool
	Duration time.Duration
}

func NewService(client ai.Client, clock application.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, clock: clock, logger: logger}
}

// Analyze forwards the image bytes untouched (no format or size checks) and
// parses the model reply. Malformed replies never produce an error.
func (s *Service) Analyze(ctx context.Context, image []byte) (*AnalyzeOutput, error) {
	start := s.clock.Now()
	encoded := base64.StdEncoding.EncodeToString(image)

	raw, err := s.client.Analyze(ctx, encoded)
	if err != nil {
		s.logger.ErrorContext(ctx, "brain scan analysis failed",
			"image_bytes", len(image),
			"error", err,
		)
		return nil, fmt.Errorf("analyze brain scan: %w", err)
	}

	result, fellBack := analysis.ParseDetailed(raw)
	out := &AnalyzeOutput{
		Result:   result,
		Raw:      raw,
		Fallback: fellBack,
		Duration: s.clock.Now().Sub(start),
	}

	if fellBack {
		s.logger.WarnContext(ctx, "model reply not in expected format, using fallback",
			"reply_length", len(raw),
		)
	}
	s.logger.InfoContext(ctx, "brain scan analyzed",
		"image_bytes", len(image),
		"tumor_present", result.TumorPresent,
		"confidence", result.Confidence,
		"fallback", fellBack,
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out, nil
}
