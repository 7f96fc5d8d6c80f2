package macro

import (
	"fmt"
	"strings"

	"mex/internal/diag"
	"mex/internal/source"
)

// ErrorKind classifies expansion failures.
type ErrorKind uint8

const (
	// KindUnknown is the zero value; never produced deliberately.
	KindUnknown ErrorKind = iota
	// KindNotFound reports an invocation of an unregistered macro name.
	KindNotFound
	// KindDuplicateDefinition reports a second Define for the same name.
	KindDuplicateDefinition
	// KindNoMatchingRule reports that every rule failed to match.
	KindNoMatchingRule
	// KindDuplicateMetavariableBinding reports a name bound twice outside
	// distinct repetition iterations.
	KindDuplicateMetavariableBinding
	// KindRepetitionCountMismatch reports unequal bound lengths referenced
	// together in one repetition echo, or a depth misuse of a binding.
	KindRepetitionCountMismatch
	// KindRecursionLimitExceeded reports that the expansion stack hit the
	// configured depth limit.
	KindRecursionLimitExceeded
	// KindMalformedFragment reports a fragment-grammar rejection.
	KindMalformedFragment
	// KindMalformedDefinition reports an unparsable or invalid definition.
	KindMalformedDefinition
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindDuplicateDefinition:
		return "DuplicateDefinition"
	case KindNoMatchingRule:
		return "NoMatchingRule"
	case KindDuplicateMetavariableBinding:
		return "DuplicateMetavariableBinding"
	case KindRepetitionCountMismatch:
		return "RepetitionCountMismatch"
	case KindRecursionLimitExceeded:
		return "RecursionLimitExceeded"
	case KindMalformedFragment:
		return "MalformedFragment"
	case KindMalformedDefinition:
		return "MalformedDefinition"
	}
	return "Unknown"
}

// Error is the typed failure returned by every engine entry point.
// Frames holds the active expansion chain at the time of failure, oldest
// frame first, so callers can render a full trace.
type Error struct {
	Kind     ErrorKind
	Code     diag.Code
	Span     source.Span
	Macro    string
	Message  string
	Expected string
	Actual   string
	Frames   []Frame
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Expected != "" {
		fmt.Fprintf(&sb, ": expected %s", e.Expected)
		if e.Actual != "" {
			fmt.Fprintf(&sb, ", found %s", e.Actual)
		}
	}
	for i := len(e.Frames) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "\nnote: in this expansion of %s", e.Frames[i].Macro)
	}
	return sb.String()
}

// Diagnostic converts the error into the shared diagnostic model, with one
// note per frame in oldest-first order.
func (e *Error) Diagnostic() diag.Diagnostic {
	code := e.Code
	if code == diag.UnknownCode {
		code = defaultCode(e.Kind)
	}
	msg := e.Message
	if e.Expected != "" {
		msg = fmt.Sprintf("%s: expected %s", msg, e.Expected)
		if e.Actual != "" {
			msg = fmt.Sprintf("%s, found %s", msg, e.Actual)
		}
	}
	d := diag.NewError(code, e.Span, msg)
	for _, f := range e.Frames {
		d = d.WithNote(f.Site, fmt.Sprintf("in this expansion of %s (rule %d)", f.Macro, f.Rule))
	}
	return d
}

func defaultCode(k ErrorKind) diag.Code {
	switch k {
	case KindNotFound:
		return diag.MacUnknownMacro
	case KindDuplicateDefinition:
		return diag.MacDuplicateDefinition
	case KindNoMatchingRule:
		return diag.MacNoMatchingRule
	case KindDuplicateMetavariableBinding:
		return diag.MacDuplicateBinding
	case KindRepetitionCountMismatch:
		return diag.MacRepetitionMismatch
	case KindRecursionLimitExceeded:
		return diag.MacRecursionLimit
	case KindMalformedFragment:
		return diag.MacMalformedFragment
	case KindMalformedDefinition:
		return diag.MacDefExpectRule
	}
	return diag.UnknownCode
}

func newError(kind ErrorKind, sp source.Span, msg string) *Error {
	return &Error{Kind: kind, Span: sp, Message: msg}
}
