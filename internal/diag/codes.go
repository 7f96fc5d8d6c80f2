package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the fallback for untagged failures.
	UnknownCode Code = 0

	// Registry
	MacUnknownMacro        Code = 1001
	MacDuplicateDefinition Code = 1002

	// Definition parsing
	MacDefExpectRule        Code = 1101
	MacDefExpectFatArrow    Code = 1102
	MacDefBadMetavariable   Code = 1103
	MacDefBadFragmentKind   Code = 1104
	MacDefBadRepetition     Code = 1105
	MacDefUnboundMetavar    Code = 1106
	MacDefRepetitionDepth   Code = 1107

	// Matching
	MacNoMatchingRule      Code = 2001
	MacExpectedLiteral     Code = 2002
	MacExpectedGroup       Code = 2003
	MacUnexpectedLeftover  Code = 2004
	MacRepetitionTooFew    Code = 2005
	MacDuplicateBinding    Code = 2006

	// Expansion
	MacRepetitionMismatch Code = 3001
	MacRecursionLimit     Code = 3002

	// Fragment grammar
	MacMalformedFragment Code = 4001

	// Text substitution mode
	SubDuplicateDefine Code = 5001
	SubUnknownName     Code = 5002
	SubArityMismatch   Code = 5003
)

func (c Code) String() string {
	return fmt.Sprintf("MEX%04d", uint16(c))
}
