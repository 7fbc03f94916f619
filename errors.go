package spamsift

import "errors"

// Validation and dependency errors surfaced by the core. Each sentinel maps
// to a stable code via ErrorCode so callers can pick a transport status
// without parsing error text.
var (
	// ErrEmptyMessage means the message was empty after trimming whitespace.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong means the message exceeded the configured maximum length.
	ErrMessageTooLong = errors.New("message too long")

	// ErrInvalidK means k was outside [1, index size].
	ErrInvalidK = errors.New("k out of range")

	// ErrInvalidAlpha means alpha was outside [0, 1].
	ErrInvalidAlpha = errors.New("alpha out of range")

	// ErrEmptyDataset means the training data had no usable examples, or one
	// of the two labels had no samples (class weights would be undefined).
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrEmptyValidationSet means calibration was given no validation examples.
	ErrEmptyValidationSet = errors.New("empty validation set")

	// ErrDimensionMismatch means an embedding did not match the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable wraps failures from the embedding provider. The
	// core never retries these; retry policy belongs to the provider adapter
	// or the caller.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
)

// ErrorCode maps an error to its stable category code. Unknown errors map to
// "internal".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, ErrMessageTooLong):
		return "message_too_long"
	case errors.Is(err, ErrInvalidK):
		return "invalid_k"
	case errors.Is(err, ErrInvalidAlpha):
		return "invalid_alpha"
	case errors.Is(err, ErrEmptyDataset):
		return "empty_dataset"
	case errors.Is(err, ErrEmptyValidationSet):
		return "empty_validation_set"
	case errors.Is(err, ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, ErrEmbeddingUnavailable):
		return "embedding_unavailable"
	}
	return "internal"
}
