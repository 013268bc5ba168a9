package idgen

import "errors"

var (
	// ErrInvalidArgument is returned for malformed input to the encoder or the generator constructor.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRateLimitExceeded is returned when a generator has issued every sequence number of the current second.
	// Callers may retry, ideally in the next second.
	ErrRateLimitExceeded = errors.New("short code generation rate exceeded")

	// ErrClockBeforeEpoch is returned when the wall clock reports a time before CustomEpochSeconds.
	// It signals a misconfigured host and must not be retried.
	ErrClockBeforeEpoch = errors.New("clock is before the custom epoch")
)
