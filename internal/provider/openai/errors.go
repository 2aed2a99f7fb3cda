package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/blogsmith"
)

// wrapError categorizes an OpenAI SDK error, keeping any Retry-After hint.
// Errors without an HTTP status are returned unchanged for the retry
// heuristics to inspect.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError("openai request failed", apiErr.StatusCode, parseRetryAfter(apiErr.Response), err)
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}
