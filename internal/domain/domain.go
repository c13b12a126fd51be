package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel marks a field whose provider had nothing usable for the cycle.
const Sentinel = "NA"

const (
	MinTargets = 1
	MaxTargets = 10
)

var (
	ErrEmptyTarget   = errors.New("target identifier is empty")
	ErrInvalidTarget = errors.New("target identifier contains a path separator")
)

// TokenTarget identifies one tracked asset, typically a Solana mint address.
type TokenTarget string

// ParseTarget trims raw and checks it can name a dataset file.
func ParseTarget(raw string) (TokenTarget, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyTarget
	}
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	return TokenTarget(s), nil
}

func (t TokenTarget) String() string { return string(t) }
