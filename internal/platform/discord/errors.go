package discord

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"catcents-backend/internal/features/roles/models"

	"github.com/bwmarrin/discordgo"
)

// Discord JSON error codes.
const (
	codeUnknownMember = 10007
	codeUnknownUser   = 10013
)

// APIError is a failed Discord call with its HTTP status and retry hint.
// It satisfies the retry package's StatusCoder and RetryAfterer.
type APIError struct {
	Op      string
	Status  int
	Code    int
	Message string
	Retry   time.Duration

	notFound bool
	cause    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("discord %s: status %d code %d: %s", e.Op, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("discord %s: status %d: %v", e.Op, e.Status, e.cause)
}

func (e *APIError) Unwrap() []error {
	if e.notFound {
		return []error{models.ErrMemberNotFound, e.cause}
	}
	return []error{e.cause}
}

func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) RetryAfter() time.Duration { return e.Retry }

// wrapError converts discordgo errors into APIError. memberOp marks calls on
// a single member, where a 404 means the member left the guild.
func wrapError(op string, err error, memberOp bool) error {
	if err == nil {
		return nil
	}

	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		apiErr := &APIError{Op: op, Status: http.StatusTooManyRequests, cause: err}
		if rl.RateLimit != nil && rl.RateLimit.TooManyRequests != nil {
			apiErr.Retry = rl.RateLimit.TooManyRequests.RetryAfter
			apiErr.Message = rl.RateLimit.TooManyRequests.Message
		}
		return apiErr
	}

	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		apiErr := &APIError{Op: op, cause: err}
		if rest.Response != nil {
			apiErr.Status = rest.Response.StatusCode
			apiErr.Retry = parseRetryAfter(rest.Response.Header.Get("Retry-After"))
		}
		if rest.Message != nil {
			apiErr.Code = rest.Message.Code
			apiErr.Message = rest.Message.Message
		}
		if apiErr.Code == codeUnknownMember || apiErr.Code == codeUnknownUser ||
			(memberOp && apiErr.Status == http.StatusNotFound) {
			apiErr.notFound = true
		}
		return apiErr
	}

	return fmt.Errorf("discord %s: %w", op, err)
}

// parseRetryAfter reads a Retry-After header given in (possibly fractional)
// seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
