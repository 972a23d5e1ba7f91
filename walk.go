// SPDX-License-Identifier: MIT
package hiermap

import (
	"context"
	"errors"
	"fmt"
)

// REF: https://www.geeksforgeeks.org/generic-tree-level-order-traversal

// TraverseComm defines a channel message to communicate info between a [Map.Walk] & its callers.
type TraverseComm[T any] struct {
	item     T
	err      error
	newPeers bool
}

const traverseBufferSize = 10

// ErrNoLeaves is returned when a walk yields no terminal items.
var ErrNoLeaves = errors.New("lacks leaves; hierarchy is cyclic")

// Item retrieves the walked item.
func (t TraverseComm[T]) Item() T { return t.item }

// Err retrieves the walk error, terminating the walk.
func (t TraverseComm[T]) Err() error { return t.err }

// NewPeers reports whether the item starts a new level.
func (t TraverseComm[T]) NewPeers() bool { return t.newPeers }

// Walk performs breadth-first traversal from key, pushing its items to traverseChan.
//
// The item stored under key is sent first. traverseChan is closed on completion; a
// context.Context is used to terminate the walk operation.
func (m *Map[K, T]) Walk(ctx context.Context, key K, traverseChan chan TraverseComm[T]) {
	defer close(traverseChan)

	send := func(comm TraverseComm[T]) bool {
		select {
		case <-ctx.Done():
			return false
		case traverseChan <- comm:
			return true
		}
	}

	start, err := m.Get(key)
	if err != nil {
		send(TraverseComm[T]{err: err})
		return
	}

	// Level order traversal.
	queue := []T{start}
	visited := map[K]struct{}{key: {}}

	var front T
	for len(queue) > 0 {
		if err = ctx.Err(); err != nil {
			send(TraverseComm[T]{err: err})
			return
		}

		// Iterate over the level's items.
		newPeers := true
		for queueLen := len(queue); queueLen > 0; queueLen-- {
			front, queue = queue[0], queue[1:]

			if !send(TraverseComm[T]{item: front, newPeers: newPeers}) {
				return
			}
			newPeers = false

			for _, child := range m.Children(front.Key()) {
				if _, ok := visited[child.Key()]; ok {
					send(TraverseComm[T]{err: fmt.Errorf(parentErrFmt, front.Key(), child.Key(), ErrCyclic)})
					return
				}
				visited[child.Key()] = struct{}{}

				queue = append(queue, child)
			}
		}
	}
}

// ChildrenByLevel lists the descendants of key grouped by depth.
func (m *Map[K, T]) ChildrenByLevel(ctx context.Context, key K) (children LevelList[T], err error) {
	walkCtx, walkCancel := context.WithCancel(ctx)
	defer walkCancel()

	traverseChan := make(chan TraverseComm[T], traverseBufferSize)
	go m.Walk(walkCtx, key, traverseChan)

	var peers []T
	for resl := range traverseChan {
		if err = resl.err; err != nil {
			return nil, err
		}

		if !resl.newPeers {
			peers = append(peers, resl.item)
			continue
		}

		if len(peers) > 0 {
			children = append(children, peers)
		}
		peers = []T{resl.item}
	}
	if len(peers) > 0 {
		children = append(children, peers)
	}

	// A canceled walk may end without reporting.
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	m.debugf("walked (%v): %d levels", key, len(children))

	if len(children) > 0 {
		// Omit self from the list.
		children = children[1:]
	}

	if len(children) < 1 {
		err = fmt.Errorf(keyErrFmt, key, ErrNoChildren)
	}

	return
}

// Leaves lists the items without children at or below key.
//
// An error here indicates a cyclic hierarchy or an absent key.
func (m *Map[K, T]) Leaves(ctx context.Context, key K) (leaves []T, err error) {
	walkCtx, walkCancel := context.WithCancel(ctx)
	defer walkCancel()

	traverseChan := make(chan TraverseComm[T], traverseBufferSize)
	go m.Walk(walkCtx, key, traverseChan)

	leaves = []T{}
	for resl := range traverseChan {
		if err = resl.err; err != nil {
			return nil, err
		}

		if _, ok := m.children[resl.item.Key()]; !ok {
			leaves = append(leaves, resl.item)
		}
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if len(leaves) < 1 {
		err = ErrNoLeaves
	}

	return
}
