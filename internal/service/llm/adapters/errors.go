package adapters

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"

	"quill/internal/domain"
)

// Messages for backend failures the user can do nothing about but retry or
// report. Raw backend bodies are never surfaced.
const (
	msgBackendAuth      = "The generation service rejected our credentials. Please try again later."
	msgBackendMalformed = "The generation service returned an unexpected response. Please try again."
)

// classify maps a backend or transport error onto the failure taxonomy
func classify(err error) *domain.GenerationError {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return domain.NewGenerationError(domain.KindCancelled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewGenerationError(domain.KindNetwork, err)
	}

	if status, code, ok := openAIStatus(err); ok {
		return classifyStatus(status, code, err)
	}

	if isTransportError(err) {
		return domain.NewGenerationError(domain.KindNetwork, err)
	}

	return classifyMessage(err)
}

// openAIStatus extracts the HTTP status and error code from go-openai errors
func openAIStatus(err error) (status int, code string, ok bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if c, isString := apiErr.Code.(string); isString {
			code = c
		}
		if code == "" {
			code = apiErr.Type
		}
		return apiErr.HTTPStatusCode, code, true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, "", true
	}
	return 0, "", false
}

func classifyStatus(status int, code string, err error) *domain.GenerationError {
	switch {
	case status == http.StatusTooManyRequests, status == http.StatusPaymentRequired,
		code == "insufficient_quota", code == "rate_limit_exceeded":
		return domain.NewGenerationError(domain.KindQuota, err)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &domain.GenerationError{Kind: domain.KindBackend, Message: msgBackendAuth, Err: err}
	case status == 0:
		return domain.NewGenerationError(domain.KindNetwork, err)
	default:
		return domain.NewGenerationError(domain.KindBackend, err)
	}
}

func isTransportError(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	var opErr *net.OpError
	return errors.As(err, &netErr) ||
		errors.As(err, &urlErr) ||
		errors.As(err, &opErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// classifyMessage is the fallback for providers that only report status
// codes inside the error text.
func classifyMessage(err error) *domain.GenerationError {
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "429", "rate limit", "rate_limit", "quota", "credit balance"):
		return domain.NewGenerationError(domain.KindQuota, err)
	case containsAny(msg, "401", "403", "authentication", "invalid x-api-key", "permission"):
		return &domain.GenerationError{Kind: domain.KindBackend, Message: msgBackendAuth, Err: err}
	case containsAny(msg, "connection refused", "no such host", "connection reset", "unexpected eof", "timeout"):
		return domain.NewGenerationError(domain.KindNetwork, err)
	default:
		return domain.NewGenerationError(domain.KindBackend, err)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// malformed reports a response that parsed but carried nothing usable
func malformed(err error) *domain.GenerationError {
	return &domain.GenerationError{Kind: domain.KindBackend, Message: msgBackendMalformed, Err: err}
}
