// SPDX-License-Identifier: MIT
package hiermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/panjf2000/ants/v2"
	"gopkg.in/yaml.v3"
)

type (
	// Source defines an interface for providers of items to load into a [Map].
	Source[T any] interface {
		// Load obtains the provider's items.
		Load(ctx context.Context) ([]T, error)
	}

	// SliceSource is a [Source] over in-memory items.
	SliceSource[T any] []T

	// FileSource is a [Source] decoding a JSON or YAML file holding a list of items.
	//
	// The format is chosen by the file's extension; `.json` is decoded as JSON, anything else as
	// YAML.
	FileSource[T any] struct {
		Path string
	}

	// Loader fetches items from its sources concurrently & adds them to a [Map] in source order.
	Loader[K comparable, T Item[K]] struct {
		cfg      *Config
		sources  []Source[T]
		poolSize int
	}

	// LoaderOption defines the Loader functional option type.
	LoaderOption[K comparable, T Item[K]] func(*Loader[K, T])

	loadResult[T any] struct {
		items []T
		err   error
	}
)

const defPoolSize = 4

// Loading errors.
var (
	ErrNoSources  = errors.New("no sources to load")
	ErrLoadSource = errors.New("failed to load source")
)

// Load returns the slice's items.
func (s SliceSource[T]) Load(_ context.Context) ([]T, error) { return s, nil }

// Load reads & decodes the file's items.
func (f FileSource[T]) Load(ctx context.Context) (items []T, err error) {
	if err = ctx.Err(); err != nil {
		return
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return
	}

	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".json":
		err = json.Unmarshal(data, &items)
	default:
		err = yaml.Unmarshal(data, &items)
	}
	if err != nil {
		err = fmt.Errorf("(%s) %w", f.Path, err)
	}

	return
}

// String is the fmt.Stringer implementation for FileSource.
func (f FileSource[T]) String() string { return f.Path }

// NewLoader instantiates a [Loader].
func NewLoader[K comparable, T Item[K]](options ...LoaderOption[K, T]) *Loader[K, T] {
	l := &Loader[K, T]{cfg: defConfig, poolSize: defPoolSize}

	for _, opt := range options {
		opt(l)
	}

	return l
}

// WithSources configures the sources, in the order their items are added.
func WithSources[K comparable, T Item[K]](sources ...Source[T]) LoaderOption[K, T] {
	return func(l *Loader[K, T]) { l.sources = append(l.sources, sources...) }
}

// WithFiles configures a [FileSource] per path.
func WithFiles[K comparable, T Item[K]](paths ...string) LoaderOption[K, T] {
	return func(l *Loader[K, T]) {
		for _, path := range paths {
			l.sources = append(l.sources, FileSource[T]{Path: path})
		}
	}
}

// WithPoolSize configures the number of sources loaded concurrently.
func WithPoolSize[K comparable, T Item[K]](size int) LoaderOption[K, T] {
	return func(l *Loader[K, T]) { l.poolSize = size }
}

// WithLoaderConfig configures the [Loader]'s [Config].
func WithLoaderConfig[K comparable, T Item[K]](cfg *Config) LoaderOption[K, T] {
	return func(l *Loader[K, T]) { l.cfg = cfg }
}

// Load fetches every source & adds the items to m.
//
// Sources are fetched concurrently; their items are added on the calling goroutine in source
// order. Failed sources are skipped & their errors joined; an add failure stops loading with the
// preceding items in place.
func (l *Loader[K, T]) Load(ctx context.Context, m *Map[K, T]) (err error) {
	if len(l.sources) < 1 {
		return ErrNoSources
	}

	results, err := l.fetch(ctx)
	if err != nil {
		return
	}

	var errs []error
	for index, resl := range results {
		if resl.err != nil {
			errs = append(errs, fmt.Errorf("%w (%v): %w", ErrLoadSource, l.sources[index], resl.err))
			continue
		}

		if l.cfg.Debug {
			l.cfg.Logger.Debugf("source (%v) yielded %d items", l.sources[index], len(resl.items))
		}

		if err = m.AddRange(resl.items); err != nil {
			// Skip expensive operation if not debug.
			if l.cfg.Debug {
				l.cfg.Logger.Debugf("loaded keys: %s", spew.Sdump(m.Keys()))
			}

			errs = append(errs, fmt.Errorf("source (%v): %w", l.sources[index], err))
			return errors.Join(errs...)
		}
	}

	return errors.Join(errs...)
}

// fetch loads the sources on a worker pool.
func (l *Loader[K, T]) fetch(ctx context.Context) (results []loadResult[T], err error) {
	pool, err := ants.NewPool(l.poolSize, ants.WithPanicHandler(func(p interface{}) {
		l.cfg.Logger.Errorf("source load panicked: %v", p)
	}))
	if err != nil {
		return
	}
	defer pool.Release()

	results = make([]loadResult[T], len(l.sources))

	wg := new(sync.WaitGroup)
	for index := range l.sources {
		index := index

		wg.Add(1)
		task := func() {
			defer wg.Done()

			// Retained should Load panic.
			results[index].err = ErrLoadSource
			results[index].items, results[index].err = l.sources[index].Load(ctx)
		}

		if err = pool.Submit(task); err != nil {
			wg.Done()
			results[index].err = err
			err = nil
		}
	}
	wg.Wait()

	return
}
