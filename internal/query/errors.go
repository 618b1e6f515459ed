package query

import (
	"errors"
	"fmt"
)

// ErrNoMessages is returned when a query runs over an empty chat.
var ErrNoMessages = errors.New("no messages to analyze")

// InvalidQueryError means the query matched neither grammar, or the
// resulting plan cannot be executed.
type InvalidQueryError struct {
	Query  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid query %q", e.Query)
	}
	if e.Query == "" {
		return "invalid query: " + e.Reason
	}
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Reason)
}

// InvalidTokenError means an operation, target or group word is neither a
// canonical name nor a known synonym.
type InvalidTokenError struct {
	Kind  string // "operation", "target" or "group"
	Token string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Token)
}

// TooManyGroupsError is returned when a result has more grouping levels
// than can be laid out on a plot.
type TooManyGroupsError struct {
	Groups []Group
}

func (e *TooManyGroupsError) Error() string {
	return fmt.Sprintf("too many groups to plot: %d (at most 2)", len(e.Groups))
}
