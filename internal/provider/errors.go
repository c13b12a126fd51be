package provider

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a provider that produced nothing usable this cycle.
var ErrUnavailable = errors.New("provider unavailable")

// ErrNoPairs is the market provider answering with an empty pair list.
var ErrNoPairs = errors.New("no trading pairs")

// UnavailableError carries the provider name and the underlying failure.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func unavailable(provider string, err error) error {
	return &UnavailableError{Provider: provider, Err: err}
}
