// SPDX-License-Identifier: MIT
package lexer

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Config describes an outline's notation & the Lexer's logging.
//
// The zero value is usable once validated; unset fields take the defaults.
type Config struct {
	Logger logrus.FieldLogger
	Debug  bool

	// Splitter precedes each child value.
	Splitter rune
	// EndMarker closes a value's children.
	EndMarker rune

	// IsValue reports the runes that may form a value.
	IsValue RuneClass
}

// Outline notation defaults.
const (
	DefaultSplitter  = ','
	DefaultEndMarker = ')'

	emptyRune rune = 0
)

// ErrInvalidNotation is returned for markers that cannot be told apart from values, whitespace
// or each other.
var ErrInvalidNotation = errors.New("ambiguous outline notation")

// DefaultConfig obtains the `a,b),c))` notation.
func DefaultConfig() *Config {
	return &Config{
		Logger:    logrus.New(),
		Splitter:  DefaultSplitter,
		EndMarker: DefaultEndMarker,
		IsValue:   IsValue,
	}
}

// Validate populates unset fields with defaults & checks that the markers are unambiguous.
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Splitter == emptyRune {
		c.Splitter = DefaultSplitter
	}
	if c.EndMarker == emptyRune {
		c.EndMarker = DefaultEndMarker
	}
	if c.IsValue == nil {
		c.IsValue = IsValue
	}

	switch {
	case c.Splitter == c.EndMarker:
		return fmt.Errorf("%w: splitter & end marker are both %q", ErrInvalidNotation, c.Splitter)
	case c.IsValue(c.Splitter), isWhitespace(c.Splitter):
		return fmt.Errorf("%w: splitter %q", ErrInvalidNotation, c.Splitter)
	case c.IsValue(c.EndMarker), isWhitespace(c.EndMarker):
		return fmt.Errorf("%w: end marker %q", ErrInvalidNotation, c.EndMarker)
	}

	return nil
}
