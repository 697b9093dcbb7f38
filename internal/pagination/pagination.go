// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pagination provides the cursor-based page wrapper shared by all caches.
package pagination

// =============================================================================
// CURSOR
// =============================================================================

// EndCursor is the sentinel cursor value meaning "no further pages".
// The server paginates backwards through time; the oldest page carries
// this cursor instead of a real timestamp.
const EndCursor int64 = 1

// =============================================================================
// PAGE TYPE
// =============================================================================

// Page is one cursor-delimited slice of an ordered collection.
//
// Data order is significant: chronological for dialogue items, cursor order
// for conversations. NextCursor of zero or EndCursor means there is nothing
// further to fetch.
type Page[T any] struct {
	Data       []T   `json:"data"`
	NextCursor int64 `json:"next_cursor,omitempty"`
}

// MakePage constructs a page. Pure construction, no validation; callers own
// cursor semantics.
func MakePage[T any](data []T, nextCursor int64) Page[T] {
	return Page[T]{
		Data:       data,
		NextCursor: nextCursor,
	}
}

// Empty returns a page with no data and no cursor.
func Empty[T any]() Page[T] {
	return Page[T]{}
}

// HasMore reports whether a further page exists behind NextCursor.
func (p Page[T]) HasMore() bool {
	return p.NextCursor != 0 && p.NextCursor != EndCursor
}

// Len returns the number of items in the page.
func (p Page[T]) Len() int {
	return len(p.Data)
}

// =============================================================================
// MERGE OPERATIONS
// =============================================================================

// Append merges a newer page onto the tail: data = data ++ next.Data, and the
// cursor is replaced with the new page's cursor. Used when scrolling toward
// older conversations in a cursor-ordered list.
func (p Page[T]) Append(next Page[T]) Page[T] {
	merged := make([]T, 0, len(p.Data)+len(next.Data))
	merged = append(merged, p.Data...)
	merged = append(merged, next.Data...)
	return Page[T]{
		Data:       merged,
		NextCursor: next.NextCursor,
	}
}

// Prepend merges an older page onto the head: data = prev.Data ++ data, and
// the cursor is replaced with the older page's cursor. Used when scrolling a
// dialogue backwards through history.
func (p Page[T]) Prepend(prev Page[T]) Page[T] {
	merged := make([]T, 0, len(prev.Data)+len(p.Data))
	merged = append(merged, prev.Data...)
	merged = append(merged, p.Data...)
	return Page[T]{
		Data:       merged,
		NextCursor: prev.NextCursor,
	}
}

// Clone returns a page whose Data slice is an independent copy. Cache writes
// hand out clones so readers never observe a partially-updated slice.
func (p Page[T]) Clone() Page[T] {
	if p.Data == nil {
		return Page[T]{NextCursor: p.NextCursor}
	}
	data := make([]T, len(p.Data))
	copy(data, p.Data)
	return Page[T]{
		Data:       data,
		NextCursor: p.NextCursor,
	}
}
