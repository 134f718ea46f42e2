package lycoris

import (
	"math/big"
	"strings"
)

// Value is a closed sum of the kinds a Lycoris program manipulates. The five
// public kinds (Rational, String, Bool, Nil, Vector) are the only ones that
// may sit directly on the stack; Word is the deferred word reference that a
// vector literal captures, executed later by run or a scope modifier.
type Value interface {
	// String renders the canonical textual form: what the tokenizer accepts
	// back, what print emits, and what the dictionary stores for display.
	String() string

	value()
}

// Scope selects how a word reference is applied to the stack.
type Scope uint8

const (
	ScopeLocal  Scope = iota // plain application at the stack top
	ScopeMap                 // @: once per element of the popped vector
	ScopeReduce              // *: left fold over the popped vector
	ScopeGlobal              // #: whole stack gathered into one vector
)

func (s Scope) sigil() string {
	switch s {
	case ScopeMap:
		return "@"
	case ScopeReduce:
		return "*"
	case ScopeGlobal:
		return "#"
	}
	return ""
}

// Rational is an exact fraction of arbitrary-precision integers, always in
// lowest terms with a positive denominator (big.Rat maintains both).
type Rational struct{ rat *big.Rat }

// String is UTF-8 text.
type String string

// Bool is a truth value.
type Bool bool

// Nil is the unit value.
type Nil struct{}

// Vector is an ordered sequence of values; it is both data and suspended
// code, realized only by run or a scope modifier.
type Vector []Value

// Word is a deferred reference to a dictionary word, legal only inside a
// Vector. It renders as the bare name with its scope sigil so that quoted
// programs re-tokenize to themselves.
type Word struct {
	Scope Scope
	Name  string
}

func (Rational) value() {}
func (String) value()   {}
func (Bool) value()     {}
func (Nil) value()      {}
func (Vector) value()   {}
func (Word) value()     {}

func (v Rational) String() string { return v.rat.RatString() }

func (v String) String() string { return "'" + string(v) + "'" }

func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (Nil) String() string { return "nil" }

func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, el := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(el.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (v Word) String() string { return v.Scope.sigil() + v.Name }

// equal compares structurally; vectors element-wise, rationals exactly.
func equal(a, b Value) bool {
	switch a := a.(type) {
	case Rational:
		b, ok := b.(Rational)
		return ok && a.rat.Cmp(b.rat) == 0
	case String:
		b, ok := b.(String)
		return ok && a == b
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Vector:
		b, ok := b.(Vector)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Word:
		b, ok := b.(Word)
		return ok && a == b
	}
	return false
}

func typeName(v Value) string {
	switch v.(type) {
	case Rational:
		return "number"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Nil:
		return "nil"
	case Vector:
		return "vector"
	case Word:
		return "word"
	}
	return "unknown"
}
