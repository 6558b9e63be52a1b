package gotext

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyReference is returned when an operation is given an empty reference.
var ErrEmptyReference = errors.New("reference cannot be empty")

// MalformedPayloadError indicates a version without enough identity to derive its storage key.
type MalformedPayloadError struct {
	Missing []string // Names of the missing identity fields
}

func (e *MalformedPayloadError) Error() string {
	if len(e.Missing) == 0 {
		return "malformed payload"
	}
	return fmt.Sprintf("malformed payload: missing %s", strings.Join(e.Missing, ", "))
}

// FetchError indicates the fetch for one slot failed. Nothing is cached for that slot.
type FetchError struct {
	Slot  Slot
	Key   VersionKey
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %q (%s): %v", e.Slot, e.Key.Ref, VersionParam(e.Key.Language, e.Key.VersionTitle), e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a text API failure (HTTP error, rate limit, bad body).
type ProviderError struct {
	Message    string
	Cause      error
	StatusCode int           // HTTP status, 0 if the request never got a response
	Retryable  bool          // Whether the operation can be retried
	RetryAfter time.Duration // Server-requested wait before retrying, 0 if none
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a backing store failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// SlotOf reports which slot a resolve error belongs to.
func SlotOf(err error) (Slot, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Slot, true
	}
	return "", false
}
