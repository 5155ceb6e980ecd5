package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rty-renty/SuanMing/internal/domain"
	"github.com/rty-renty/SuanMing/internal/ports"
)

// DivineRequest is the application-level input (no HTTP types).
type DivineRequest struct {
	Name      string
	BirthDate string
}

// DivineResponse is the application-level output.
type DivineResponse struct {
	Fortune   domain.FortuneResult
	Source    domain.Source
	Model     string
	LatencyMS int64
}

// DivinationService asks the oracle for a fortune and falls back to the
// local generator when the oracle is unavailable or fails.
type DivinationService struct {
	oracle      ports.Oracle
	credentials ports.CredentialResolver
	minDelay    time.Duration
	logger      *slog.Logger
}

// NewDivinationService wires the service. A nil oracle routes every request
// to the local generator.
func NewDivinationService(oracle ports.Oracle, creds ports.CredentialResolver, minDelay time.Duration, logger *slog.Logger) *DivinationService {
	return &DivinationService{
		oracle:      oracle,
		credentials: creds,
		minDelay:    minDelay,
		logger:      logger,
	}
}

// outcome is the result of one oracle attempt.
type outcome struct {
	fortune domain.FortuneResult
	model   string
	err     error
}

// Divine always returns a complete fortune, and never before minDelay has
// elapsed since the call started. The floor is kept even if ctx is done.
func (s *DivinationService) Divine(ctx context.Context, req DivineRequest) DivineResponse {
	start := time.Now()
	floor := time.NewTimer(s.minDelay)
	defer floor.Stop()

	res := s.attempt(ctx, req)

	resp := DivineResponse{Fortune: res.fortune, Source: domain.SourceOracle, Model: res.model}
	if res.err != nil {
		s.logFailure(ctx, res.err)
		resp = DivineResponse{
			Fortune: domain.Generate(req.Name, req.BirthDate),
			Source:  domain.SourceFallback,
		}
	}

	<-floor.C
	resp.LatencyMS = time.Since(start).Milliseconds()
	return resp
}

func (s *DivinationService) attempt(ctx context.Context, req DivineRequest) outcome {
	if s.oracle == nil {
		return outcome{err: domain.ErrOracleDisabled}
	}
	if s.credentials == nil {
		return outcome{err: domain.ErrNoCredential}
	}
	apiKey, ok := s.credentials.Resolve()
	if !ok {
		return outcome{err: domain.ErrNoCredential}
	}

	out, err := s.oracle.Divine(ctx, apiKey, ports.DivineInput{Name: req.Name, BirthDate: req.BirthDate})
	if err != nil {
		return outcome{err: err}
	}
	// Adapters validate, but a partial record must never escape.
	if err := out.Fortune.Validate(); err != nil {
		return outcome{err: err}
	}
	return outcome{fortune: out.Fortune, model: out.Model}
}

func (s *DivinationService) logFailure(ctx context.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOracleDisabled):
		s.logger.DebugContext(ctx, "remote oracle disabled, using fallback")
	case errors.Is(err, domain.ErrNoCredential):
		s.logger.WarnContext(ctx, "API key is missing or invalid, using fallback")
	default:
		s.logger.ErrorContext(ctx, "divination failed, using fallback", "error", err)
	}
}
