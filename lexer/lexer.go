// SPDX-License-Identifier: MIT
package lexer

// REF: https://github.com/sh4t/sql-parser
// REF: https://gitlab.com/fisherprime/go-ddbms/-/blob/master/internal/v1/lexer.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type (
	// stateFunc lexes a token, returning the state handling what follows or nil at the end.
	stateFunc func(context.Context) stateFunc

	// RuneClass reports a rune's membership of a token class.
	RuneClass func(rune) bool

	// Lexer defines a type to capture outline values & markers from a rune source.
	Lexer struct {
		cfg Config

		// c carries the lexed Items to the consumer.
		c chan Item

		source io.RuneReader

		// buffer holds the runes of the token being lexed.
		buffer []rune
		// bufferIndex is the current buffer position.
		//
		// When this value reaches the length of buffer, the buffer is populated from the source.
		bufferIndex int

		valueCounter int
		endCounter   int
	}

	// Option defines the Lexer functional option type
	Option func(*Lexer)
)

const (
	sourceLimit   = 512
	defBufferSize = 10
)

// Lexing errors.
var (
	ErrUnknownTokens = errors.New("unknown tokens")
)

// Rune lookup tables for the ASCII token classes.
var (
	whitespace = [256]bool{
		' ':  true,
		'\t': true,
		'\r': true,
		'\n': true,
	}

	alphaSymbols = [256]bool{
		'_': true,
		'-': true,
		'.': true,
		':': true,
	}
)

// New creates a new Lexer, an empty source is used unless configured.
//
// An error is returned for an ambiguous notation.
func New(opts ...Option) (l *Lexer, err error) {
	l = &Lexer{
		cfg: *DefaultConfig(),

		c: make(chan Item, defBufferSize),

		buffer: make([]rune, 0, defBufferSize),
		source: strings.NewReader(""),
	}

	for _, opt := range opts {
		opt(l)
	}

	if err = l.cfg.Validate(); err != nil {
		return nil, err
	}

	return
}

// WithConfig configures the notation, logger & debug options.
func WithConfig(cfg Config) Option { return func(l *Lexer) { l.cfg = cfg } }

// WithSource configures the outline's reader.
func WithSource(source io.RuneReader) Option { return func(l *Lexer) { l.source = source } }

// Config obtains the Lexer's configuration.
func (l *Lexer) Config() Config { return l.cfg }

// ValueCounter obtains the number of lexed values.
//
// Only valid once the Item channel is drained.
func (l *Lexer) ValueCounter() int { return l.valueCounter }

// EndCounter obtains the number of lexed end markers.
//
// Only valid once the Item channel is drained.
func (l *Lexer) EndCounter() int { return l.endCounter }

// Lex lexes the input by executing state functions, closing the Item channel on completion.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	for state := stateFunc(l.lexWhitespace); state != nil; {
		if err := ctx.Err(); err != nil {
			l.emitError(ctx, err)
			return
		}

		state = state(ctx)
	}
}

// Item returns a lexed Item from the input.
func (l *Lexer) Item() (i Item, ok bool) {
	i, ok = <-l.c
	return
}

// lexWhitespace discards whitespace & lexes markers.
func (l *Lexer) lexWhitespace(ctx context.Context) stateFunc {
	// Whitespace is dropped.
	l.acceptWhile(isWhitespace)
	l.discard()

	next := l.next()
	switch {
	case next == emptyRune:
		l.emit(ctx, ItemEOF)
		return nil
	case next == l.cfg.EndMarker:
		l.endCounter++
		l.emit(ctx, ItemEndMarker)
	case next == l.cfg.Splitter:
		l.emit(ctx, ItemSplitter)
	case l.cfg.IsValue(next):
		return l.lexValue
	default:
		l.backup()

		var remnant strings.Builder
		for count := 0; count < sourceLimit; count++ {
			r := l.next()
			if r == emptyRune {
				break
			}
			remnant.WriteRune(r)
		}

		l.emitError(ctx, fmt.Errorf("%w: %s", ErrUnknownTokens, remnant.String()))

		return nil
	}

	return l.lexWhitespace
}

// lexValue lexes an outline value.
func (l *Lexer) lexValue(ctx context.Context) stateFunc {
	l.acceptWhile(l.cfg.IsValue)

	l.valueCounter++
	l.emit(ctx, ItemValue)

	return l.lexWhitespace
}

// next returns the next rune in the input or emptyRune at the end of the source.
func (l *Lexer) next() (r rune) {
	if l.bufferIndex >= len(l.buffer) {
		// Request data from the source.
		var err error
		if r, _, err = l.source.ReadRune(); err != nil {
			return emptyRune
		}
		l.buffer = append(l.buffer, r)
	}

	r = l.buffer[l.bufferIndex]
	l.bufferIndex++

	return
}

// backup steps back one rune.
func (l *Lexer) backup() {
	if l.bufferIndex > 0 {
		l.bufferIndex--
	}
}

// discard the buffer content before the current buffer index.
func (l *Lexer) discard() {
	l.buffer = l.buffer[l.bufferIndex:]
	l.bufferIndex = 0
}

// acceptWhile consumes runes while fn is true.
func (l *Lexer) acceptWhile(fn RuneClass) {
	for {
		r := l.next()
		if r == emptyRune {
			return
		}

		// End of current token type.
		if !fn(r) {
			l.backup()
			return
		}
	}
}

// emit sends an Item holding the buffered runes over the communication channel.
func (l *Lexer) emit(ctx context.Context, t ItemID) {
	i := Item{ID: t}
	if t != ItemEOF {
		i.Val = []byte(string(l.buffer[:l.bufferIndex]))
	}

	if l.cfg.Debug {
		l.cfg.Logger.Debugf("lexer emit: %s", i)
	}

	select {
	case <-ctx.Done():
	case l.c <- i:
	}
	l.discard()
}

// emitError sends an error over the Lexer's channel.
func (l *Lexer) emitError(ctx context.Context, err error) {
	select {
	case <-ctx.Done():
	case l.c <- Item{ID: ItemError, Err: err}:
	}
}

// isWhitespace return true for whitespace, newline & carrier return.
func isWhitespace(r rune) bool { return r < 256 && whitespace[r] }

// IsValue is the default RuneClass, accepting letters, digits & `_-.:`.
func IsValue(r rune) bool {
	return (r < 256 && alphaSymbols[r]) || unicode.IsLetter(r) || unicode.IsDigit(r)
}
