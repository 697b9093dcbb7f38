// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// CONSTRUCTION TESTS
// =============================================================================

func TestMakePage(t *testing.T) {
	data := []string{"a", "b", "c"}
	p := MakePage(data, 42)

	// Construction is a pure identity
	assert.Equal(t, data, p.Data)
	assert.Equal(t, int64(42), p.NextCursor)
}

func TestMakePage_Empty(t *testing.T) {
	p := MakePage([]int{}, 0)

	assert.Empty(t, p.Data)
	assert.Zero(t, p.NextCursor)
	assert.False(t, p.HasMore())
}

func TestPage_HasMore(t *testing.T) {
	assert.True(t, MakePage([]int{1}, 1700000000).HasMore())
	assert.False(t, MakePage([]int{1}, EndCursor).HasMore())
	assert.False(t, MakePage([]int{1}, 0).HasMore())
}

// =============================================================================
// MERGE TESTS
// =============================================================================

func TestPage_Append(t *testing.T) {
	first := MakePage([]string{"a", "b"}, 200)
	next := MakePage([]string{"c", "d"}, EndCursor)

	merged := first.Append(next)

	assert.Equal(t, []string{"a", "b", "c", "d"}, merged.Data)
	assert.Equal(t, EndCursor, merged.NextCursor)
	// Originals are untouched
	assert.Equal(t, []string{"a", "b"}, first.Data)
	assert.Equal(t, int64(200), first.NextCursor)
}

func TestPage_Prepend(t *testing.T) {
	current := MakePage([]string{"c", "d"}, 300)
	older := MakePage([]string{"a", "b"}, 100)

	merged := current.Prepend(older)

	assert.Equal(t, []string{"a", "b", "c", "d"}, merged.Data)
	assert.Equal(t, int64(100), merged.NextCursor)
}

func TestPage_Clone(t *testing.T) {
	p := MakePage([]string{"a", "b"}, 7)
	c := p.Clone()

	c.Data[0] = "mutated"

	assert.Equal(t, "a", p.Data[0])
	assert.Equal(t, p.NextCursor, c.NextCursor)
}

func TestPage_Clone_NilData(t *testing.T) {
	var p Page[int]
	c := p.Clone()

	assert.Nil(t, c.Data)
	assert.Zero(t, c.NextCursor)
}
