// SPDX-License-Identifier: MIT
package hiermap

import (
	"errors"
	"reflect"
	"testing"
)

func rec(id, parent int) *Record[int] { return NewRecord(id, parent) }

// newIntMap instantiates a Map holding the items, failing the test on an add error.
func newIntMap(t *testing.T, items ...*Record[int]) *Map[int, *Record[int]] {
	t.Helper()

	m := New[int, *Record[int]]()
	if err := m.AddRange(items); err != nil {
		t.Fatalf("Map.AddRange() error = %v", err)
	}

	return m
}

func TestMap_Add(t *testing.T) {
	tests := []struct {
		name     string
		items    []*Record[int]
		add      *Record[int]
		wantKeys []int
		wantErr  error
	}{
		{
			name:     "top level",
			add:      rec(1, 0),
			wantKeys: []int{1},
		},
		{
			name:     "child",
			items:    []*Record[int]{rec(1, 0)},
			add:      rec(2, 1),
			wantKeys: []int{1, 2},
		},
		{
			name:     "dangling parent",
			items:    []*Record[int]{rec(1, 0)},
			add:      rec(2, 7),
			wantKeys: []int{1, 2},
		},
		{
			name:     "duplicate key",
			items:    []*Record[int]{rec(1, 0)},
			add:      rec(1, 3),
			wantKeys: []int{1},
			wantErr:  ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newIntMap(t, tt.items...)

			err := m.Add(tt.add)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Map.Add() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := m.Keys(); !reflect.DeepEqual(got, tt.wantKeys) {
				t.Errorf("Map.Keys() = %v, want %v", got, tt.wantKeys)
			}
		})
	}
}

func TestMap_AddKeyed(t *testing.T) {
	m := New[int, *Record[int]]()

	if err := m.AddKeyed(2, rec(1, 0)); !errors.Is(err, ErrKeyMismatch) {
		t.Errorf("Map.AddKeyed() error = %v, want %v", err, ErrKeyMismatch)
	}
	if err := m.AddEntry(Entry[int, *Record[int]]{Key: 1, Item: rec(1, 0)}); err != nil {
		t.Errorf("Map.AddEntry() error = %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Map.Len() = %d, want 1", m.Len())
	}
}

func TestMap_AddRange(t *testing.T) {
	m := New[int, *Record[int]]()

	err := m.AddRange([]*Record[int]{rec(1, 0), rec(2, 1), rec(1, 0), rec(3, 1)})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Map.AddRange() error = %v, want %v", err, ErrDuplicateKey)
	}

	// Items preceding the failure are retained.
	if got, want := m.Keys(), []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("Map.Keys() = %v, want %v", got, want)
	}
}

func TestMap_Get(t *testing.T) {
	m := newIntMap(t, rec(1, 0))

	if got, err := m.Get(1); err != nil || got.Key() != 1 {
		t.Errorf("Map.Get() = %v, %v", got, err)
	}

	if got, err := m.Get(999); !errors.Is(err, ErrKeyNotFound) || got != nil {
		t.Errorf("Map.Get() = %v, error = %v, want %v", got, err, ErrKeyNotFound)
	}

	if _, ok := m.Lookup(999); ok {
		t.Error("Map.Lookup() reported an absent key")
	}
}

func TestMap_Set(t *testing.T) {
	tests := []struct {
		name         string
		key          int
		item         *Record[int]
		wantErr      error
		wantChildren map[int][]int
		wantTop      []int
	}{
		{
			name:         "reparent to top level",
			key:          2,
			item:         &Record[int]{ID: 2, Title: "moved"},
			wantChildren: map[int][]int{1: {}, 2: {3}},
			wantTop:      []int{1, 2},
		},
		{
			name:         "reparent to sibling",
			key:          3,
			item:         rec(3, 1),
			wantChildren: map[int][]int{1: {2, 3}, 2: {}},
			wantTop:      []int{1},
		},
		{
			name:         "same parent",
			key:          2,
			item:         &Record[int]{ID: 2, Parent: 1, Title: "renamed"},
			wantChildren: map[int][]int{1: {2}, 2: {3}},
			wantTop:      []int{1},
		},
		{
			name:         "absent key",
			key:          4,
			item:         rec(4, 1),
			wantErr:      ErrKeyNotFound,
			wantChildren: map[int][]int{1: {2}, 4: {}},
			wantTop:      []int{1},
		},
		{
			name:         "key mismatch",
			key:          2,
			item:         rec(3, 0),
			wantErr:      ErrKeyMismatch,
			wantChildren: map[int][]int{1: {2}, 2: {3}},
			wantTop:      []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newIntMap(t, rec(1, 0), rec(2, 1), rec(3, 2))

			err := m.Set(tt.key, tt.item)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Map.Set() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				if got, _ := m.Get(tt.key); got != tt.item {
					t.Errorf("Map.Get() = %v, want %v", got, tt.item)
				}
			}

			for parent, want := range tt.wantChildren {
				if got := KeysOf[int](m.Children(parent)); !reflect.DeepEqual(got, want) {
					t.Errorf("Map.Children(%d) = %v, want %v", parent, got, want)
				}
			}
			if got := KeysOf[int](m.TopLevelItems()); !reflect.DeepEqual(got, tt.wantTop) {
				t.Errorf("Map.TopLevelItems() = %v, want %v", got, tt.wantTop)
			}
		})
	}
}

func TestMap_Remove(t *testing.T) {
	m := newIntMap(t, rec(1, 0), rec(2, 1), rec(3, 2), rec(4, 1))

	if !m.Remove(2) {
		t.Fatal("Map.Remove() = false, want true")
	}
	if m.Remove(2) {
		t.Error("Map.Remove() of an absent key = true, want false")
	}

	if m.ContainsKey(2) {
		t.Error("Map.ContainsKey() = true after removal")
	}
	if got, want := KeysOf[int](m.Children(1)), []int{4}; !reflect.DeepEqual(got, want) {
		t.Errorf("Map.Children(1) = %v, want %v", got, want)
	}
	if _, ok := m.children[1][2]; ok {
		t.Error("removed key lingers in its parent's child index")
	}
	if got := m.Children(2); len(got) != 0 {
		t.Errorf("Map.Children(2) = %v, want empty", got)
	}

	// The detached child keeps its parent key.
	if got, _ := m.Get(3); got.ParentKey() != 2 {
		t.Errorf("Map.Get(3).ParentKey() = %v, want 2", got.ParentKey())
	}
	if got, want := m.Keys(), []int{1, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("Map.Keys() = %v, want %v", got, want)
	}

	// Re-adding the key restores its children.
	if err := m.Add(rec(2, 1)); err != nil {
		t.Fatalf("Map.Add() error = %v", err)
	}
	if got, want := KeysOf[int](m.Children(2)), []int{3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Map.Children(2) = %v, want %v", got, want)
	}
	if got, want := KeysOf[int](m.Children(1)), []int{4, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("Map.Children(1) = %v, want %v", got, want)
	}
}

func TestMap_RemoveParent(t *testing.T) {
	tests := []struct {
		name        string
		items       []*Record[int]
		remove      []int
		add         []*Record[int]
		set         []*Record[int]
		want        []int
		wantReadded []int
	}{
		{
			name:        "childless parent",
			items:       []*Record[int]{rec(1, 0)},
			remove:      []int{1},
			add:         []*Record[int]{rec(3, 1)},
			want:        []int{3},
			wantReadded: []int{3},
		},
		{
			name:        "parent with children",
			items:       []*Record[int]{rec(1, 0), rec(2, 1), rec(4, 0)},
			remove:      []int{1},
			add:         []*Record[int]{rec(3, 1)},
			set:         []*Record[int]{rec(4, 1)},
			want:        []int{4, 3},
			wantReadded: []int{2, 4, 3},
		},
		{
			name:        "child removed while detached",
			items:       []*Record[int]{rec(1, 0), rec(2, 1), rec(3, 1)},
			remove:      []int{1, 2},
			want:        []int{},
			wantReadded: []int{3},
		},
		{
			name:        "child reparented while detached",
			items:       []*Record[int]{rec(1, 0), rec(2, 1), rec(3, 1)},
			remove:      []int{1},
			set:         []*Record[int]{rec(2, 3)},
			want:        []int{},
			wantReadded: []int{3},
		},
		{
			name:        "never present parent",
			items:       []*Record[int]{rec(2, 1)},
			add:         []*Record[int]{rec(3, 1)},
			want:        []int{2, 3},
			wantReadded: []int{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newIntMap(t, tt.items...)

			for _, key := range tt.remove {
				m.Remove(key)
			}
			for _, item := range tt.add {
				if err := m.Add(item); err != nil {
					t.Fatalf("Map.Add() error = %v", err)
				}
			}
			for _, item := range tt.set {
				if err := m.Set(item.ID, item); err != nil {
					t.Fatalf("Map.Set() error = %v", err)
				}
			}

			// Children of an absent parent are indexed regardless of its history.
			if got := KeysOf[int](m.Children(1)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Map.Children(1) = %v, want %v", got, tt.want)
			}

			if !m.ContainsKey(1) {
				if err := m.Add(rec(1, 0)); err != nil {
					t.Fatalf("Map.Add() error = %v", err)
				}
			}
			if got := KeysOf[int](m.Children(1)); !reflect.DeepEqual(got, tt.wantReadded) {
				t.Errorf("Map.Children(1) after re-adding = %v, want %v", got, tt.wantReadded)
			}
			if len(m.detached) != 0 {
				t.Errorf("detached child sets linger: %v", m.detached)
			}
		})
	}
}

func TestMap_RemoveCycles(t *testing.T) {
	m := newIntMap(t, rec(1, 0))

	for round := 0; round < 10; round++ {
		key := round + 2
		if err := m.Add(rec(key, 1)); err != nil {
			t.Fatalf("Map.Add() error = %v", err)
		}
		m.Remove(1)
		m.Remove(key)
		if err := m.Add(rec(1, 0)); err != nil {
			t.Fatalf("Map.Add() error = %v", err)
		}
	}

	if len(m.children) != 0 || len(m.detached) != 0 {
		t.Errorf("child index retains removed keys: %v, %v", m.children, m.detached)
	}
}

func TestMap_DanglingParent(t *testing.T) {
	m := newIntMap(t, rec(2, 1), rec(3, 1))

	if got, want := KeysOf[int](m.Children(1)), []int{2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Map.Children(1) = %v, want %v", got, want)
	}

	parent, ok, err := m.Parent(2)
	if err != nil || ok || parent != nil {
		t.Errorf("Map.Parent(2) = %v, %v, %v; want no parent", parent, ok, err)
	}

	// Dangling references are not top level.
	if got := m.TopLevelItems(); len(got) != 0 {
		t.Errorf("Map.TopLevelItems() = %v, want empty", got)
	}

	if err = m.Add(rec(1, 0)); err != nil {
		t.Fatalf("Map.Add() error = %v", err)
	}
	if parent, ok, _ = m.Parent(2); !ok || parent.Key() != 1 {
		t.Errorf("Map.Parent(2) = %v, %v; want 1", parent, ok)
	}
}

func TestMap_Contains(t *testing.T) {
	m := newIntMap(t, rec(1, 0), &Record[int]{ID: 2, Parent: 1, Title: "two"})

	tests := []struct {
		name  string
		entry Entry[int, *Record[int]]
		want  bool
	}{
		{name: "equal item", entry: Entry[int, *Record[int]]{Key: 2, Item: &Record[int]{ID: 2, Parent: 1, Title: "two"}}, want: true},
		{name: "differing item", entry: Entry[int, *Record[int]]{Key: 2, Item: rec(2, 1)}},
		{name: "absent key", entry: Entry[int, *Record[int]]{Key: 3, Item: rec(3, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Contains(tt.entry); got != tt.want {
				t.Errorf("Map.Contains() = %v, want %v", got, tt.want)
			}
		})
	}

	if m.RemoveEntry(Entry[int, *Record[int]]{Key: 2, Item: rec(2, 1)}) {
		t.Error("Map.RemoveEntry() removed a differing item")
	}
	if !m.RemoveEntry(Entry[int, *Record[int]]{Key: 2, Item: &Record[int]{ID: 2, Parent: 1, Title: "two"}}) {
		t.Error("Map.RemoveEntry() = false, want true")
	}
}

func TestMap_WithEqual(t *testing.T) {
	m := New(WithEqual[int, *Record[int]](func(a, b *Record[int]) bool { return a.ID == b.ID }))
	if err := m.Add(&Record[int]{ID: 1, Title: "one"}); err != nil {
		t.Fatalf("Map.Add() error = %v", err)
	}

	if !m.Contains(Entry[int, *Record[int]]{Key: 1, Item: rec(1, 0)}) {
		t.Error("Map.Contains() = false with a key comparison")
	}
}

func TestMap_CopyTo(t *testing.T) {
	m := newIntMap(t, rec(1, 0), rec(2, 1))

	tests := []struct {
		name    string
		dstLen  int
		index   int
		wantErr error
	}{
		{name: "exact", dstLen: 2},
		{name: "offset", dstLen: 3, index: 1},
		{name: "short destination", dstLen: 2, index: 1, wantErr: ErrInvalidIndex},
		{name: "negative index", dstLen: 3, index: -1, wantErr: ErrInvalidIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]Entry[int, *Record[int]], tt.dstLen)

			err := m.CopyTo(dst, tt.index)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Map.CopyTo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if got := dst[tt.index : tt.index+2]; !reflect.DeepEqual(got, m.Entries()) {
				t.Errorf("Map.CopyTo() = %v, want %v", got, m.Entries())
			}
		})
	}
}

func TestMap_Enumeration(t *testing.T) {
	items := []*Record[int]{rec(3, 0), rec(1, 3), rec(2, 3)}
	m := newIntMap(t, items...)

	if got := m.Values(); !reflect.DeepEqual(got, items) {
		t.Errorf("Map.Values() = %v, want %v", got, items)
	}

	var visited []int
	m.Range(func(key int, _ *Record[int]) bool {
		visited = append(visited, key)
		return len(visited) < 2
	})
	if want := []int{3, 1}; !reflect.DeepEqual(visited, want) {
		t.Errorf("Map.Range() visited %v, want %v", visited, want)
	}
}

func TestMap_Clear(t *testing.T) {
	m := newIntMap(t, rec(1, 0), rec(2, 1))
	m.Remove(1)
	m.Clear()

	if m.Len() != 0 || len(m.Keys()) != 0 || len(m.children) != 0 || len(m.detached) != 0 {
		t.Errorf("Map.Clear() left %d items, %d child index entries", m.Len(), len(m.children))
	}

	if err := m.Add(rec(1, 0)); err != nil {
		t.Errorf("Map.Add() after Clear error = %v", err)
	}
}

func TestMap_Scenarios(t *testing.T) {
	a, b, c := rec(1, 0), rec(2, 1), rec(3, 2)
	m := newIntMap(t, a, b, c)

	assertKeys := func(name string, got []*Record[int], want []int) {
		t.Helper()
		if keys := KeysOf[int](got); !reflect.DeepEqual(keys, want) {
			t.Errorf("%s = %v, want %v", name, keys, want)
		}
	}

	assertKeys("Map.Children(1)", m.Children(1), []int{2})
	assertKeys("Map.Children(2)", m.Children(2), []int{3})
	descendants, err := m.ChildListRecursive(1)
	if err != nil {
		t.Fatalf("Map.ChildListRecursive() error = %v", err)
	}
	assertKeys("Map.ChildListRecursive(1)", descendants, []int{2, 3})
	assertKeys("Map.TopLevelItems()", m.TopLevelItems(), []int{1})

	if err = m.Set(2, rec(2, 0)); err != nil {
		t.Fatalf("Map.Set() error = %v", err)
	}
	assertKeys("Map.Children(1)", m.Children(1), []int{})
	assertKeys("Map.TopLevelItems()", m.TopLevelItems(), []int{1, 2})

	m.Remove(2)
	if m.ContainsKey(2) {
		t.Error("Map.ContainsKey(2) = true after removal")
	}

	if _, err = m.Get(999); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Map.Get(999) error = %v, want %v", err, ErrKeyNotFound)
	}
	if err = m.Add(rec(1, 0)); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Map.Add() error = %v, want %v", err, ErrDuplicateKey)
	}

	empty := New[int, *Record[int]]()
	assertKeys("Map.TopLevelItems()", empty.TopLevelItems(), []int{})
	assertKeys("Map.Children(5)", empty.Children(5), []int{})
}
