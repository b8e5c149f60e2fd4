// Package generator invokes the remote extractive QA backend. Generate
// never surfaces an error: every call resolves to a real answer or one of
// three canned apologies, so the engine always has a displayable string.
package generator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

// Client drives the QA backend under a bounded retry budget. Backend
// failures are classified per call: model errors and transport errors are
// terminal, throttling backs off exponentially, everything else backs off
// linearly until the budget runs out.
type Client struct {
	backend    *backendClient
	maxRetries int

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

func NewClient(endpoint string, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = models.DefaultMaxRetries
	}
	return &Client{
		backend:    newBackendClient(endpoint),
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}
}

// Generate sends (question, context) to the QA backend and returns its
// answer. The call is a small state machine: sending, backoff on retryable
// failures, then either success or a terminal canned reply.
func (c *Client) Generate(ctx context.Context, question, contextText string) string {
	retries := 0
	for retries <= c.maxRetries {
		start := time.Now()
		answer, err := c.backend.invoke(ctx, question, contextText)
		if err == nil {
			log.Info().Dur("took", time.Since(start)).Msg("qa inference completed")
			return answer
		}

		var be *backendError
		if !errors.As(err, &be) {
			// transport-level or otherwise unexpected: terminal
			log.Error().Err(err).Msg("unexpected error invoking qa backend")
			return models.MsgUnexpectedError
		}

		retries++
		switch {
		case be.isModelError():
			log.Error().Err(be).Msg("qa backend reported a model error")
			return models.MsgModelError
		case be.isThrottling():
			wait := time.Duration(1<<retries) * time.Second
			log.Warn().Err(be).Dur("wait", wait).Msg("qa backend throttling, backing off")
			c.sleep(wait)
		default:
			if retries >= c.maxRetries {
				log.Error().Err(be).Int("retries", retries).Msg("giving up on qa backend")
				return models.MsgConnectionTrouble
			}
			wait := time.Duration(retries) * time.Second
			log.Warn().Err(be).Dur("wait", wait).Msg("qa backend error, retrying")
			c.sleep(wait)
		}
	}
	// budget exhausted while throttled
	return models.MsgConnectionTrouble
}
