package source_test

import (
	"testing"

	"mex/internal/source"
)

func TestAddVirtualAndGet(t *testing.T) {
	fs := source.NewFileSet()
	id, err := fs.AddVirtual("demo.mx", []byte("list(1, 2)\n"))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}
	if id == source.NoFileID {
		t.Fatalf("AddVirtual returned NoFileID")
	}
	if fs.Len() != 1 {
		t.Fatalf("Len = %d, want 1", fs.Len())
	}
	f := fs.Get(id)
	if f == nil || f.Path != "demo.mx" {
		t.Fatalf("Get(%d) = %+v", id, f)
	}
	if fs.Get(source.NoFileID) != nil {
		t.Fatalf("Get(NoFileID) must be nil")
	}
	if fs.Get(id+100) != nil {
		t.Fatalf("Get(unknown) must be nil")
	}
}

func TestLineColAt(t *testing.T) {
	fs := source.NewFileSet()
	id, err := fs.AddVirtual("demo.mx", []byte("abc\ndefg\n\nhi"))
	if err != nil {
		t.Fatalf("AddVirtual: %v", err)
	}
	f := fs.Get(id)

	cases := []struct {
		offset uint32
		line   uint32
		col    uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{7, 2, 4},
		{9, 3, 1},
		{10, 4, 1},
		{11, 4, 2},
		{200, 4, 3}, // clamped to end
	}
	for _, c := range cases {
		got := f.LineColAt(c.offset)
		if got.Line != c.line || got.Col != c.col {
			t.Fatalf("LineColAt(%d) = %d:%d, want %d:%d", c.offset, got.Line, got.Col, c.line, c.col)
		}
	}
}

func TestLineContent(t *testing.T) {
	fs := source.NewFileSet()
	id, _ := fs.AddVirtual("demo.mx", []byte("first\r\nsecond\nthird"))
	f := fs.Get(id)

	if got := string(f.Line(1)); got != "first" {
		t.Fatalf("Line(1) = %q", got)
	}
	if got := string(f.Line(2)); got != "second" {
		t.Fatalf("Line(2) = %q", got)
	}
	if got := string(f.Line(3)); got != "third" {
		t.Fatalf("Line(3) = %q", got)
	}
	if f.Line(0) != nil || f.Line(4) != nil {
		t.Fatalf("out-of-range lines must be nil")
	}
}

func TestPosition(t *testing.T) {
	fs := source.NewFileSet()
	id, _ := fs.AddVirtual("demo.mx", []byte("x\ny\n"))
	path, pos := fs.Position(source.Span{File: id, Start: 2, End: 3})
	if path != "demo.mx" || pos.Line != 2 || pos.Col != 1 {
		t.Fatalf("Position = %q %d:%d", path, pos.Line, pos.Col)
	}
	path, _ = fs.Position(source.Span{})
	if path != "" {
		t.Fatalf("Position on NoFileID must return empty path")
	}
}
