package token

import (
	"mex/internal/source"
)

// Cursor is a non-copying view over a window of a tree sequence. Captures
// produced by the matcher are Slices of the invocation's cursor; the
// underlying trees are shared, never duplicated.
type Cursor struct {
	trees []Tree
	pos   int
}

// NewCursor views the whole of trees.
func NewCursor(trees []Tree) Cursor {
	return Cursor{trees: trees}
}

// Len returns the number of trees remaining ahead of the cursor.
func (c Cursor) Len() int { return len(c.trees) - c.pos }

// Done reports whether the cursor is exhausted.
func (c Cursor) Done() bool { return c.pos >= len(c.trees) }

// Pos returns the absolute index of the cursor within its window.
func (c Cursor) Pos() int { return c.pos }

// Peek returns the tree under the cursor without advancing.
// Peeking past the end returns a zero Tree and false.
func (c Cursor) Peek() (Tree, bool) {
	if c.Done() {
		return Tree{}, false
	}
	return c.trees[c.pos], true
}

// PeekAt returns the tree n positions ahead of the cursor.
func (c Cursor) PeekAt(n int) (Tree, bool) {
	if c.pos+n >= len(c.trees) || c.pos+n < 0 {
		return Tree{}, false
	}
	return c.trees[c.pos+n], true
}

// Next returns the tree under the cursor and a cursor advanced past it.
func (c Cursor) Next() (Tree, Cursor, bool) {
	t, ok := c.Peek()
	if !ok {
		return Tree{}, c, false
	}
	c.pos++
	return t, c, true
}

// Advance returns a cursor moved n trees forward, clamped to the end.
func (c Cursor) Advance(n int) Cursor {
	c.pos += n
	if c.pos > len(c.trees) {
		c.pos = len(c.trees)
	}
	return c
}

// Slice returns the trees between the positions of from and to as a shared
// view. Both cursors must view the same window; from must not be past to.
func (c Cursor) Slice(to Cursor) []Tree {
	if to.pos < c.pos {
		return nil
	}
	return c.trees[c.pos:to.pos]
}

// Rest returns everything ahead of the cursor as a shared view.
func (c Cursor) Rest() []Tree {
	return c.trees[c.pos:]
}

// Span returns the extent of the tree under the cursor, or the end of the
// previous tree when exhausted, so failures at end-of-input still point
// somewhere useful.
func (c Cursor) Span() source.Span {
	if t, ok := c.Peek(); ok {
		return t.Span()
	}
	if c.pos > 0 {
		sp := c.trees[c.pos-1].Span()
		return source.Span{File: sp.File, Start: sp.End, End: sp.End}
	}
	return source.Span{}
}
