package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork            = errors.New("network error")
	ErrPollNotFound       = errors.New("poll not found")
	ErrInvalidOption      = errors.New("invalid option for this poll")
	ErrInvalidPoll        = errors.New("invalid poll")
	ErrVoteInFlight       = errors.New("a vote is already being submitted")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

// NetworkError reports a failed call to the poll service, either at the
// transport level (StatusCode is 0) or as a non-success status.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
