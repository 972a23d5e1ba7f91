// SPDX-License-Identifier: MIT
package hiermap

import (
	"errors"
	"reflect"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
)

type (
	// Map holds items keyed by K alongside an index of each key's immediate children.
	//
	// Synchronization is absent, the type is designed for a single owner; callers sharing a Map
	// across goroutines provide their own locking.
	Map[K comparable, T Item[K]] struct {
		// cfg contains a pointer to a [Config] shared with the Map's collaborators.
		cfg *Config

		// entries holds the stored items.
		entries map[K]*entry[T]

		// order holds the keys in insertion order.
		order []K

		// children maps a parent key to the keys of its immediate children.
		//
		// A parent key need not be present in entries.
		children childIndex[K]

		// detached holds the child sets of removed keys, restored should the key be re-added.
		//
		// Members are dropped as they are removed or reparented.
		detached childIndex[K]

		// seq is the next insertion sequence number.
		seq uint64

		equal func(a, b T) bool
	}

	// Entry is a key & item pair.
	Entry[K comparable, T Item[K]] struct {
		Key  K
		Item T
	}

	// Config defines configuration options for the [Map]'s operations.
	Config struct {
		// Logger for [Map] messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger
		Debug  bool
	}

	// Option defines the Map functional option type.
	Option[K comparable, T Item[K]] func(*Map[K, T])

	entry[T any] struct {
		item T
		seq  uint64
	}

	childSet[K comparable] map[K]struct{}

	childIndex[K comparable] map[K]childSet[K]
)

const (
	keyErrFmt    = "(%v) %w"
	parentErrFmt = "parent (%v) of (%v): %w"
)

// Errors encountered when handling a Map.
var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrDuplicateKey = errors.New("key already present")
	ErrKeyMismatch  = errors.New("item key differs from the entry key")

	ErrCyclic       = errors.New("parent chain is cyclic")
	ErrNoChildren   = errors.New("lacks children")
	ErrInvalidIndex = errors.New("invalid copy index")
)

var defConfig = DefConfig()

// DefConfig obtains the package's [Map] default options.
func DefConfig() *Config {
	return &Config{
		Logger: logrus.New(),
		Debug:  false,
	}
}

// New instantiates a [Map].
func New[K comparable, T Item[K]](options ...Option[K, T]) *Map[K, T] {
	m := &Map[K, T]{
		cfg:      defConfig,
		entries:  make(map[K]*entry[T]),
		children: make(childIndex[K]),
		detached: make(childIndex[K]),
		equal:    func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}

	for _, opt := range options {
		opt(m)
	}

	return m
}

// WithConfig configures the [Map] [Config].
func WithConfig[K comparable, T Item[K]](cfg *Config) Option[K, T] {
	return func(m *Map[K, T]) { m.cfg = cfg }
}

// WithEqual configures the item comparison used by [Map.Contains] & [Map.RemoveEntry].
//
// Defaults to reflect.DeepEqual.
func WithEqual[K comparable, T Item[K]](equal func(a, b T) bool) Option[K, T] {
	return func(m *Map[K, T]) { m.equal = equal }
}

// WithCapacity preallocates storage for n items.
func WithCapacity[K comparable, T Item[K]](n int) Option[K, T] {
	return func(m *Map[K, T]) {
		m.entries = make(map[K]*entry[T], n)
		m.order = make([]K, 0, n)
	}
}

// Config retrieves the [Map]'s Config.
func (m *Map[K, T]) Config() *Config { return m.cfg }

// keys lists the set's members.
func (s childSet[K]) keys() []K { return maps.Keys(s) }

// insert adds key to parent's set.
func (idx childIndex[K]) insert(parent, key K) {
	set, ok := idx[parent]
	if !ok {
		set = make(childSet[K])
		idx[parent] = set
	}
	set[key] = struct{}{}
}

// drop removes key from parent's set, pruning the emptied set.
func (idx childIndex[K]) drop(parent, key K) {
	set, ok := idx[parent]
	if !ok {
		return
	}

	delete(set, key)
	if len(set) < 1 {
		delete(idx, parent)
	}
}

func (m *Map[K, T]) debugf(format string, args ...interface{}) {
	if m.cfg.Debug {
		m.cfg.Logger.Debugf(format, args...)
	}
}
