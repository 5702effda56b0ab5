package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownPlace = errors.New("unknown place")

// LoadError reports a dataset source that is missing, unreadable or malformed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError names the data row and column whose cell could not be decoded.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v (value %q)", e.Row, e.Column, e.Err, truncate(e.Value, 64))
}

func (e *ParseError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
