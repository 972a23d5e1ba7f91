// SPDX-License-Identifier: MIT
package hiermap

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/exp/slices"
)

// Add an item to the [Map] under its own key.
//
// Throws an error on an existing key.
func (m *Map[K, T]) Add(item T) error { return m.add(item.Key(), item) }

// AddKeyed adds an item to the [Map] under key.
//
// The key has to match the item's key.
func (m *Map[K, T]) AddKeyed(key K, item T) error {
	if item.Key() != key {
		return fmt.Errorf("(%v) %w (%v)", key, ErrKeyMismatch, item.Key())
	}

	return m.add(key, item)
}

// AddEntry adds a key & item pair to the [Map].
func (m *Map[K, T]) AddEntry(e Entry[K, T]) error { return m.AddKeyed(e.Key, e.Item) }

// AddRange adds items in sequence, stopping at the first failure.
//
// Items preceding the failure remain in the [Map].
func (m *Map[K, T]) AddRange(items []T) (err error) {
	for index := range items {
		if err = m.Add(items[index]); err != nil {
			// Skip expensive operation if not debug.
			if m.cfg.Debug {
				m.cfg.Logger.Debugf("add range halted at %d of %d: %s", index, len(items), spew.Sdump(items[index]))
			}

			return
		}
	}

	return
}

func (m *Map[K, T]) add(key K, item T) error {
	if _, ok := m.entries[key]; ok {
		return fmt.Errorf(keyErrFmt, key, ErrDuplicateKey)
	}

	m.entries[key] = &entry[T]{item: item, seq: m.seq}
	m.order = append(m.order, key)
	m.seq++

	m.link(key, item.ParentKey())
	m.reattach(key)

	return nil
}

// Get retrieves the item stored under key.
func (m *Map[K, T]) Get(key K) (item T, err error) {
	e, ok := m.entries[key]
	if !ok {
		err = fmt.Errorf(keyErrFmt, key, ErrKeyNotFound)
		return
	}

	return e.item, nil
}

// Lookup retrieves the item stored under key & reports its presence.
func (m *Map[K, T]) Lookup(key K) (item T, ok bool) {
	e, ok := m.entries[key]
	if ok {
		item = e.item
	}

	return
}

// Set replaces the item stored under an existing key.
//
// A change in the item's parent key moves the key from the previous parent's children to the
// new parent's children.
func (m *Map[K, T]) Set(key K, item T) error {
	if item.Key() != key {
		return fmt.Errorf("(%v) %w (%v)", key, ErrKeyMismatch, item.Key())
	}

	e, ok := m.entries[key]
	if !ok {
		return fmt.Errorf(keyErrFmt, key, ErrKeyNotFound)
	}

	if prev, next := e.item.ParentKey(), item.ParentKey(); prev != next {
		m.debugf("reparent (%v): (%v) -> (%v)", key, prev, next)

		m.unlink(key, prev)
		m.link(key, next)
	}
	e.item = item

	return nil
}

// Remove deletes the item stored under key, reporting whether it was present.
//
// The key is dropped from its parent's children along with its own child index entry; the
// removed item's children retain their parent key & are listed under it again should it be
// re-added.
func (m *Map[K, T]) Remove(key K) bool {
	e, ok := m.entries[key]
	if !ok {
		return false
	}

	delete(m.entries, key)
	if index := slices.Index(m.order, key); index > -1 {
		m.order = slices.Delete(m.order, index, index+1)
	}

	m.unlink(key, e.item.ParentKey())
	m.detach(key)

	return true
}

// RemoveEntry deletes a key & item pair if both match the stored entry.
func (m *Map[K, T]) RemoveEntry(e Entry[K, T]) bool {
	if !m.Contains(e) {
		return false
	}

	return m.Remove(e.Key)
}

// ContainsKey checks for the existence of key.
func (m *Map[K, T]) ContainsKey(key K) (ok bool) {
	_, ok = m.entries[key]
	return
}

// Contains checks for the existence of a key & item pair.
func (m *Map[K, T]) Contains(e Entry[K, T]) bool {
	stored, ok := m.entries[e.Key]
	if !ok {
		return false
	}

	return m.equal(stored.item, e.Item)
}

// Len is the number of items in the [Map].
func (m *Map[K, T]) Len() int { return len(m.entries) }

// Keys lists the keys in insertion order.
func (m *Map[K, T]) Keys() []K { return slices.Clone(m.order) }

// Values lists the items in insertion order.
func (m *Map[K, T]) Values() []T {
	values := make([]T, len(m.order))
	for index, key := range m.order {
		values[index] = m.entries[key].item
	}

	return values
}

// Entries lists the key & item pairs in insertion order.
func (m *Map[K, T]) Entries() []Entry[K, T] {
	entries := make([]Entry[K, T], len(m.order))
	for index, key := range m.order {
		entries[index] = Entry[K, T]{Key: key, Item: m.entries[key].item}
	}

	return entries
}

// Range calls fn for each key & item in insertion order until fn returns false.
//
// fn must not mutate the [Map].
func (m *Map[K, T]) Range(fn func(key K, item T) bool) {
	for _, key := range m.order {
		if !fn(key, m.entries[key].item) {
			return
		}
	}
}

// CopyTo copies the [Map]'s entries into dst starting at index.
func (m *Map[K, T]) CopyTo(dst []Entry[K, T], index int) error {
	if index < 0 || len(dst)-index < m.Len() {
		return fmt.Errorf("%w: %d for %d entries into %d slots", ErrInvalidIndex, index, m.Len(), len(dst))
	}

	copy(dst[index:], m.Entries())

	return nil
}

// Clear removes all items & child index entries.
func (m *Map[K, T]) Clear() {
	m.entries = make(map[K]*entry[T])
	m.children = make(childIndex[K])
	m.detached = make(childIndex[K])
	m.order = m.order[:0]
}

// link records key as a child of parent.
//
// The parent need not be present; the child index tolerates dangling parent keys.
func (m *Map[K, T]) link(key, parent K) {
	if isRoot(parent) {
		return
	}

	m.children.insert(parent, key)
}

// unlink drops key from parent's children.
func (m *Map[K, T]) unlink(key, parent K) {
	if isRoot(parent) {
		return
	}

	m.children.drop(parent, key)
	m.detached.drop(parent, key)
}

// detach moves the child index entry of a removed key aside.
func (m *Map[K, T]) detach(key K) {
	set, ok := m.children[key]
	if !ok {
		return
	}

	delete(m.children, key)
	m.detached[key] = set
	m.debugf("detached children of (%v): %v", key, set.keys())
}

// reattach restores the children a re-added key held on removal.
func (m *Map[K, T]) reattach(key K) {
	set, ok := m.detached[key]
	if !ok {
		return
	}
	delete(m.detached, key)

	for child := range set {
		m.link(child, key)
	}
	m.debugf("reattached children of (%v): %v", key, set.keys())
}
