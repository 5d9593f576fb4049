package conversation

import (
	"errors"
	"fmt"
)

var (
	ErrHistoryMisaligned = errors.New("conversation history user and bot entries differ in length")
	ErrNegativeUsage     = errors.New("used token count must not be negative")

	// ErrHistoryWindowMismatch means the client history and the session
	// window no longer describe the same exchanges.
	ErrHistoryWindowMismatch = errors.New("conversation history does not match the session's recorded turns")
)

// ErrQueryExceedsCapacity is returned when evicting every stored turn still
// leaves no room for the query.
type ErrQueryExceedsCapacity struct {
	QueryTokens int
	UsedTokens  int
	MaxTokens   int
}

func (e *ErrQueryExceedsCapacity) Error() string {
	return fmt.Sprintf("query of %d tokens does not fit the %d token context (%d still in use after eviction)",
		e.QueryTokens, e.MaxTokens, e.UsedTokens)
}

// IsCapacityError reports whether err is or wraps an ErrQueryExceedsCapacity.
func IsCapacityError(err error) bool {
	var target *ErrQueryExceedsCapacity
	return errors.As(err, &target)
}
