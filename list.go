// SPDX-License-Identifier: MIT
package hiermap

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

type (
	// LevelList holds items grouped by their depth below some item.
	LevelList[T any] [][]T

	// Displayed is implemented by items ordered for display.
	Displayed interface {
		Named
		Sequenced
	}
)

// KeysOf returns the keys of items.
func KeysOf[K comparable, T Item[K]](items []T) (keys []K) {
	keys = make([]K, len(items))
	for index := range items {
		keys[index] = items[index].Key()
	}

	return
}

// LevelKeys returns an array-of arrays of keys for a [LevelList].
func LevelKeys[K comparable, T Item[K]](levels LevelList[T]) (keys [][]K) {
	keys = make([][]K, len(levels))
	for index := range levels {
		keys[index] = KeysOf[K](levels[index])
	}

	return
}

// SortByKey sorts items by ascending key.
func SortByKey[K constraints.Ordered, T Item[K]](items []T) {
	slices.SortStableFunc(items, func(a, b T) int { return compare(a.Key(), b.Key()) })
}

// SortByName sorts items by ascending name.
func SortByName[T Named](items []T) {
	slices.SortStableFunc(items, func(a, b T) int { return compare(a.Name(), b.Name()) })
}

// SortForDisplay sorts items by display sequence then name.
func SortForDisplay[T Displayed](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := compare(a.Sequence(), b.Sequence()); c != 0 {
			return c
		}

		return compare(a.Name(), b.Name())
	})
}

func compare[O constraints.Ordered](a, b O) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
