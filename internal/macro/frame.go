package macro

import (
	"slices"

	"mex/internal/source"
)

// Frame records one in-progress expansion for recursion accounting and
// diagnostics. It lives on an explicit stack, not the Go call stack, so
// depth can be measured and reported deterministically.
type Frame struct {
	// Macro is the name being expanded.
	Macro string
	// Site is the invocation's source span.
	Site source.Span
	// Rule is the index of the matched rule within the definition.
	Rule int
}

// frameStack is the explicit expansion stack for one top-level invocation.
type frameStack struct {
	frames []Frame
	max    int
}

func newFrameStack(maxDepth int) *frameStack {
	return &frameStack{max: maxDepth}
}

// push appends f; reports false when the stack is already at its limit.
func (s *frameStack) push(f Frame) bool {
	if len(s.frames) >= s.max {
		return false
	}
	s.frames = append(s.frames, f)
	return true
}

func (s *frameStack) pop() {
	if n := len(s.frames); n > 0 {
		s.frames = s.frames[:n-1]
	}
}

func (s *frameStack) depth() int {
	return len(s.frames)
}

// chain returns a copy of the active frames, oldest first. Errors hold this
// snapshot so later pushes and pops cannot mutate a reported trace.
func (s *frameStack) chain() []Frame {
	return slices.Clone(s.frames)
}
