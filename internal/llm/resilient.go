package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifesync/internal/retry"
)

// ResilientClient wraps a Client with retry logic, timeout handling, and
// an optional fallback backend tried once when the primary is exhausted.
type ResilientClient struct {
	primary     Client
	fallback    Client
	retryConfig retry.RetryConfig
	timeout     time.Duration
}

// NewResilientClient creates a resilient wrapper around primary. fallback
// may be nil.
func NewResilientClient(primary, fallback Client, config retry.RetryConfig, timeout time.Duration) *ResilientClient {
	return &ResilientClient{
		primary:     primary,
		fallback:    fallback,
		retryConfig: config,
		timeout:     timeout,
	}
}

// NewResilientClientWithDefaults creates a resilient client with the
// generation retry configuration.
func NewResilientClientWithDefaults(primary, fallback Client, timeout time.Duration) *ResilientClient {
	return NewResilientClient(primary, fallback, retry.GenerationRetryConfig(), timeout)
}

// Generate calls the primary backend with retry and timeout; when every
// attempt fails and a fallback is configured, the fallback gets one shot.
func (rc *ResilientClient) Generate(ctx context.Context, history []Message, input string) (string, error) {
	if rc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.timeout)
		defer cancel()
	}

	var response string
	result := retry.RetryWithBackoffAndReason(ctx, rc.retryConfig, func() (error, string) {
		text, err := rc.primary.Generate(ctx, history, input)
		if err != nil {
			return err, err.Error()
		}
		response = text
		return nil, "success"
	})

	if result.Success {
		return response, nil
	}

	log.Warn().
		Int("attempts", result.Attempts).
		Dur("total_duration", result.TotalDuration).
		Err(result.LastError).
		Msg("Primary generation backend exhausted")

	if rc.fallback != nil && ctx.Err() == nil {
		text, err := rc.fallback.Generate(ctx, history, input)
		if err == nil {
			log.Info().Msg("Fallback generation backend answered")
			return text, nil
		}
		log.Warn().Err(err).Msg("Fallback generation backend failed")
	}

	return "", result.LastError
}
