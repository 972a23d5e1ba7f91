// SPDX-License-Identifier: MIT
package hiermap

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Parent retrieves the parent of the item stored under key.
//
// ok is false for top-level items & items whose parent key is absent from the [Map]; an error
// is only returned for an absent key.
func (m *Map[K, T]) Parent(key K) (parent T, ok bool, err error) {
	e, present := m.entries[key]
	if !present {
		err = fmt.Errorf(keyErrFmt, key, ErrKeyNotFound)
		return
	}

	parentKey := e.item.ParentKey()
	if isRoot(parentKey) {
		return
	}

	pe, ok := m.entries[parentKey]
	if ok {
		parent = pe.item
	}

	return
}

// ParentOf performs the Parent operation for an item's key.
func (m *Map[K, T]) ParentOf(item T) (parent T, ok bool, err error) { return m.Parent(item.Key()) }

// Children lists the immediate children of key in insertion order.
//
// An absent key or one without children yields an empty list.
func (m *Map[K, T]) Children(key K) (children []T) {
	set, ok := m.children[key]
	if !ok {
		return []T{}
	}

	found := make([]*entry[T], 0, len(set))
	for child := range set {
		if e, ok := m.entries[child]; ok {
			found = append(found, e)
		}
	}
	slices.SortFunc(found, func(a, b *entry[T]) int { return compare(a.seq, b.seq) })

	children = make([]T, len(found))
	for index := range found {
		children[index] = found[index].item
	}

	return
}

// ChildrenOf performs the Children operation for an item's key.
func (m *Map[K, T]) ChildrenOf(item T) []T { return m.Children(item.Key()) }

// RootItem ascends from key to the first item lacking a resolvable parent.
func (m *Map[K, T]) RootItem(key K) (root T, err error) {
	item, err := m.Get(key)
	if err != nil {
		return
	}

	return m.RootItemOf(item)
}

// RootItemOf performs the RootItem operation from an item.
//
// A parent chain exceeding the [Map]'s length is cyclic.
func (m *Map[K, T]) RootItemOf(item T) (root T, err error) {
	root = item
	for steps := 0; ; steps++ {
		parent, ok, pErr := m.Parent(root.Key())
		if pErr != nil {
			err = pErr
			return
		}
		if !ok {
			return
		}

		if steps >= m.Len() {
			err = fmt.Errorf(keyErrFmt, item.Key(), ErrCyclic)
			return
		}
		root = parent
	}
}

// RootKey performs the RootItem operation returning the root's key.
func (m *Map[K, T]) RootKey(key K) (rootKey K, err error) {
	root, err := m.RootItem(key)
	if err != nil {
		return
	}

	return root.Key(), nil
}

// ChildListRecursive lists the descendants of key.
//
// Immediate children precede the descendants of the first child, which precede those of the
// second child and so forth.
func (m *Map[K, T]) ChildListRecursive(key K) ([]T, error) {
	visited := map[K]struct{}{key: {}}
	return m.childListRecursive(key, visited, []T{})
}

func (m *Map[K, T]) childListRecursive(key K, visited map[K]struct{}, list []T) (_ []T, err error) {
	children := m.Children(key)
	for _, child := range children {
		if _, ok := visited[child.Key()]; ok {
			return list, fmt.Errorf(parentErrFmt, key, child.Key(), ErrCyclic)
		}
		visited[child.Key()] = struct{}{}
	}
	list = append(list, children...)

	for _, child := range children {
		if list, err = m.childListRecursive(child.Key(), visited, list); err != nil {
			return list, err
		}
	}

	return list, nil
}

// ChildKeysRecursive performs the ChildListRecursive operation returning keys.
func (m *Map[K, T]) ChildKeysRecursive(key K) (keys []K, err error) {
	items, err := m.ChildListRecursive(key)
	if err != nil {
		return
	}

	return KeysOf[K](items), nil
}

// ItemListRecursive lists the item stored under key followed by its descendants.
func (m *Map[K, T]) ItemListRecursive(key K) (items []T, err error) {
	item, err := m.Get(key)
	if err != nil {
		return
	}

	descendants, err := m.ChildListRecursive(key)
	if err != nil {
		return
	}

	items = make([]T, 0, len(descendants)+1)
	items = append(items, item)

	return append(items, descendants...), nil
}

// KeyListRecursive performs the ItemListRecursive operation returning keys.
func (m *Map[K, T]) KeyListRecursive(key K) (keys []K, err error) {
	items, err := m.ItemListRecursive(key)
	if err != nil {
		return
	}

	return KeysOf[K](items), nil
}

// TopLevelItems lists the items lacking a parent key in insertion order.
func (m *Map[K, T]) TopLevelItems() (items []T) {
	items = []T{}
	for _, key := range m.order {
		if item := m.entries[key].item; isRoot(item.ParentKey()) {
			items = append(items, item)
		}
	}

	return
}
