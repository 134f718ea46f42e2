package lycoris

import "fmt"

// Kind classifies evaluator failures. A Kind is itself an error, so callers
// can match with errors.Is(err, lycoris.TypeError).
type Kind uint8

const (
	SyntaxError Kind = iota + 1
	UnknownWord
	TypeError
	ArityError
	IndexError
	DomainError
	LimitExceeded
	NameConflict
	ProtectedBuiltin
	InvalidName
	NotFound
	CorruptState
	OutOfMemory
)

var kindNames = [...]string{
	SyntaxError:      "SyntaxError",
	UnknownWord:      "UnknownWord",
	TypeError:        "TypeError",
	ArityError:       "ArityError",
	IndexError:       "IndexError",
	DomainError:      "DomainError",
	LimitExceeded:    "LimitExceeded",
	NameConflict:     "NameConflict",
	ProtectedBuiltin: "ProtectedBuiltin",
	InvalidName:      "InvalidName",
	NotFound:         "NotFound",
	CorruptState:     "CorruptState",
	OutOfMemory:      "OutOfMemory",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) Error() string { return k.String() }

// Error is the failure value returned by every public operation.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func errf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}
