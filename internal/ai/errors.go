package ai

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Describe: короткая диагностика ошибки completion-сервиса для логов
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrEmptyCompletion) {
		return "empty completion"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "completion timed out"
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized:
		return "invalid completion API key"
	case status == http.StatusNotFound:
		return "model not found"
	case status == http.StatusTooManyRequests:
		return "completion rate limit exceeded"
	case status == http.StatusBadRequest:
		return "bad completion request"
	case status >= 500:
		return "completion service internal error"
	case status != 0:
		return "unexpected completion status " + http.StatusText(status)
	}
	return "completion request failed"
}
