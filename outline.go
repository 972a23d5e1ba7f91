// SPDX-License-Identifier: MIT
package hiermap

// REF: https://www.geeksforgeeks.org/serialize-deserialize-n-ary-tree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/fisherprime/hiermap/lexer"
)

// KeyParser converts a lexed outline value into a key.
type KeyParser[K comparable] func(value []byte) (K, error)

// Outline errors.
var (
	ErrInvalidSource     = errors.New("invalid hierarchy source")
	ErrEmptySource       = errors.New("empty hierarchy source")
	ErrUnserializableKey = errors.New("key contains runes outside the outline's value set")
	ErrTopLevelKey       = errors.New("key equals the top-level parent key")

	ErrExcessiveValues     = errors.New("the deserialization source has excessive values")
	ErrExcessiveEndMarkers = errors.New("the deserialization source has excessive end markers")
)

// Serialize transforms the item stored under key & its descendants into an outline.
//
// Each key is followed by its children, each preceded by the splitter, then the end marker:
// `1,2,3)),4))`. Children are written in insertion order.
func (m *Map[K, T]) Serialize(ctx context.Context, key K, notation *lexer.Config) (output string, err error) {
	cfg := lexer.DefaultConfig()
	if notation != nil {
		*cfg = *notation
	}
	if err = cfg.Validate(); err != nil {
		return
	}

	if _, err = m.Get(key); err != nil {
		return
	}

	var buffer strings.Builder
	visited := map[K]struct{}{key: {}}
	if err = m.serialize(ctx, cfg, key, visited, &buffer); err != nil {
		// Invalidate serialization output.
		return
	}

	return buffer.String(), nil
}

// serialize performs the serialization grunt work.
func (m *Map[K, T]) serialize(ctx context.Context, cfg *lexer.Config, key K, visited map[K]struct{}, buffer *strings.Builder) (err error) {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	value := fmt.Sprint(key)
	if value == "" || strings.IndexFunc(value, func(r rune) bool { return !cfg.IsValue(r) }) > -1 {
		return fmt.Errorf("(%s) %w", value, ErrUnserializableKey)
	}
	buffer.WriteString(value)

	for _, child := range m.Children(key) {
		childKey := child.Key()
		if _, ok := visited[childKey]; ok {
			return fmt.Errorf(parentErrFmt, key, childKey, ErrCyclic)
		}
		visited[childKey] = struct{}{}

		buffer.WriteRune(cfg.Splitter)
		if err = m.serialize(ctx, cfg, childKey, visited, buffer); err != nil {
			return
		}
	}
	buffer.WriteRune(cfg.EndMarker)

	return
}

// Deserialize transforms an outline into a [Map] of [Record]s.
//
// An outline may hold several top-level keys. An invalid entry will result in a truncated Map
// alongside the error.
func Deserialize[K comparable](ctx context.Context, parse KeyParser[K], opts ...lexer.Option) (m *Map[K, *Record[K]], err error) {
	lexCtx, lexCancel := context.WithCancel(ctx)
	defer lexCancel()

	l, err := lexer.New(opts...)
	if err != nil {
		return
	}
	go l.Lex(lexCtx)

	lCfg := l.Config()
	m = New(WithConfig[K, *Record[K]](&Config{Logger: lCfg.Logger, Debug: lCfg.Debug}))

	var rootValue K
	for {
		var end bool
		if end, err = deserialize(m, l, parse, rootValue); err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidSource, err)
			return
		}
		if end {
			break
		}
	}

	// Drain the lexer for its counters to settle.
	for {
		item, proceed := l.Item()
		if !proceed {
			break
		}
		if item.ID == lexer.ItemError && err == nil {
			err = fmt.Errorf("%w: %v", ErrInvalidSource, item.Err)
		}
	}
	if err != nil {
		return
	}

	if err = ctx.Err(); err != nil {
		return
	}

	if l.ValueCounter() < 1 {
		err = ErrEmptySource
		return
	}

	diff := l.ValueCounter() - l.EndCounter()
	switch {
	case diff > 0:
		// Excessive values.
		err = fmt.Errorf("%w: +%d", ErrExcessiveValues, diff)
	case diff < 0:
		// Excessive end markers.
		err = fmt.Errorf("%w: %s +%d", ErrExcessiveEndMarkers, string(lCfg.EndMarker), -diff)
	default:
		// Valid
	}

	return
}

// deserialize consumes a value & its children, adding them to the Map.
//
// end is true on reaching the end of the parent's children or the source.
func deserialize[K comparable](m *Map[K, *Record[K]], l *lexer.Lexer, parse KeyParser[K], parent K) (end bool, err error) {
	item, proceed := l.Item()
	if !proceed {
		end = true
		return
	}

	m.debugf("lexed item: %s", item)

	switch item.ID {
	case lexer.ItemEOF, lexer.ItemEndMarker:
		end = true
		return
	case lexer.ItemError:
		// Stop input processing.
		end = true
		err = item.Err
		return
	case lexer.ItemSplitter:
		return
	}

	key, err := parse(item.Val)
	if err != nil {
		end = true
		return
	}
	if isRoot(key) {
		// The key's children would read as top-level.
		end = true
		err = fmt.Errorf("(%s) %w", item.Val, ErrTopLevelKey)
		return
	}

	if err = m.Add(NewRecord(key, parent)); err != nil {
		end = true
		return
	}

	for {
		var endChildren bool
		if endChildren, err = deserialize(m, l, parse, key); err != nil {
			end = true
			return
		}
		if endChildren {
			// End of children.
			return
		}
	}
}

// ParseString is a [KeyParser] for string keys.
func ParseString(value []byte) (string, error) { return string(value), nil }

// ParseInt is a [KeyParser] for int keys.
func ParseInt(value []byte) (int, error) { return strconv.Atoi(string(value)) }

// ParseJSON is a [KeyParser] decoding values as JSON.
func ParseJSON[K comparable](value []byte) (key K, err error) {
	err = json.Unmarshal(value, &key)
	return
}
