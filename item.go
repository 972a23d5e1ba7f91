// SPDX-License-Identifier: MIT
package hiermap

import "fmt"

type (
	// Item defines an interface for entities that can be stored in a [Map].
	//
	// The zero value of K as a ParentKey denotes a top-level item.
	Item[K comparable] interface {
		// Key obtains the item's unique identifier.
		Key() K
		// ParentKey obtains the key of the item's parent.
		ParentKey() K
	}

	// Named is implemented by items carrying a display name.
	Named interface {
		Name() string
	}

	// Sequenced is implemented by items carrying a display sequence.
	Sequenced interface {
		Sequence() int
	}

	// Record is a sample [Item] implementation.
	Record[K comparable] struct {
		ID     K      `json:"id" yaml:"id"`
		Parent K      `json:"parent,omitempty" yaml:"parent,omitempty"`
		Title  string `json:"title,omitempty" yaml:"title,omitempty"`
		Order  int    `json:"order,omitempty" yaml:"order,omitempty"`
	}

	// TreeItem is an int keyed [Item] carrying display attributes.
	TreeItem struct {
		ID              int    `json:"id" yaml:"id"`
		ParentID        int    `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
		Label           string `json:"name" yaml:"name"`
		DisplaySequence int    `json:"display_sequence,omitempty" yaml:"display_sequence,omitempty"`
		IconType        string `json:"icon_type,omitempty" yaml:"icon_type,omitempty"`
		EntityID        int    `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`
		EntityType      string `json:"entity_type,omitempty" yaml:"entity_type,omitempty"`
		Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	}
)

// NewRecord instantiates a [Record].
func NewRecord[K comparable](id, parent K) *Record[K] {
	return &Record[K]{ID: id, Parent: parent}
}

// Key obtains the Record's identifier.
func (r *Record[K]) Key() K { return r.ID }

// ParentKey obtains the Record's parent identifier.
func (r *Record[K]) ParentKey() K { return r.Parent }

// Name obtains the Record's title, falling back to its identifier.
func (r *Record[K]) Name() string {
	if r.Title != "" {
		return r.Title
	}

	return fmt.Sprint(r.ID)
}

// Sequence obtains the Record's display order.
func (r *Record[K]) Sequence() int { return r.Order }

// String is the fmt.Stringer implementation for Record.
func (r *Record[K]) String() string { return fmt.Sprintf("%v<-%v", r.ID, r.Parent) }

// Key obtains the TreeItem's identifier.
func (t *TreeItem) Key() int { return t.ID }

// ParentKey obtains the TreeItem's parent identifier.
func (t *TreeItem) ParentKey() int { return t.ParentID }

// Name obtains the TreeItem's display name.
func (t *TreeItem) Name() string { return t.Label }

// Sequence obtains the TreeItem's display sequence.
func (t *TreeItem) Sequence() int { return t.DisplaySequence }

// isRoot reports whether a parent key denotes the absence of a parent.
func isRoot[K comparable](parent K) bool {
	var rootValue K
	return parent == rootValue
}
