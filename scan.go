package lycoris

import (
	"math/big"
	"strconv"
	"strings"
)

// The tokenizer folds parsing into scanning: every token it emits is either
// a finished Value, a word reference, or the guard separator. The dictionary
// is authoritative for lexical boundaries: words need no surrounding
// whitespace because the trie resolves the longest defined name at each
// position, so "2add3mul" scans as 2, add, 3, mul.

type tokenKind uint8

const (
	tokenValue tokenKind = iota
	tokenWord
	tokenColon
)

type token struct {
	kind  tokenKind
	val   Value // tokenValue
	scope Scope // tokenWord
	name  string
	off   int // byte offset in the source
}

type scanner struct {
	src    string
	pos    int
	dict   *dict
	maxExp int // scientific-notation exponent bound
}

func scan(src string, d *dict, maxExp int) ([]token, error) {
	s := scanner{src: src, dict: d, maxExp: maxExp}
	var toks []token
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return toks, nil
		}
		tok, err := s.next(false)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// skipSpace consumes whitespace and line comments. A '#' opens a comment
// unless it immediately prefixes a defined word, in which case it is the
// global scope sigil and scanning stops here.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		case c == '#':
			if n, _ := s.dict.longestPrefix(s.src, s.pos+1); n > 0 {
				return
			}
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

// next scans one token at the current position, which is not whitespace.
// Recognition order: string, vector, number, reserved literal, guard
// separator, then scope sigil plus dictionary longest match.
func (s *scanner) next(inVector bool) (token, error) {
	off := s.pos
	switch c := s.src[s.pos]; {
	case c == '\'':
		v, err := s.scanString()
		return token{kind: tokenValue, val: v, off: off}, err
	case c == '[':
		v, err := s.scanVector()
		return token{kind: tokenValue, val: v, off: off}, err
	}
	if v, ok, err := s.scanNumber(); err != nil {
		return token{}, err
	} else if ok {
		return token{kind: tokenValue, val: v, off: off}, nil
	}
	rest := s.src[s.pos:]
	switch {
	case strings.HasPrefix(rest, "true"):
		s.pos += 4
		return token{kind: tokenValue, val: Bool(true), off: off}, nil
	case strings.HasPrefix(rest, "false"):
		s.pos += 5
		return token{kind: tokenValue, val: Bool(false), off: off}, nil
	case strings.HasPrefix(rest, "nil"):
		s.pos += 3
		return token{kind: tokenValue, val: Nil{}, off: off}, nil
	case rest[0] == ':':
		s.pos++
		return token{kind: tokenColon, off: off}, nil
	}
	scope := ScopeLocal
	switch rest[0] {
	case '@':
		scope = ScopeMap
	case '*':
		scope = ScopeReduce
	case '#':
		scope = ScopeGlobal
	}
	at := s.pos
	if scope != ScopeLocal {
		at++
	}
	if n, b := s.dict.longestPrefix(s.src, at); n > 0 {
		s.pos = at + n
		return token{kind: tokenWord, scope: scope, name: b.name, off: off}, nil
	}
	// Inside a vector literal, execution is deferred, so name resolution is
	// too: an undefined name run becomes a Word reference that run will
	// look up once it executes. This is what lets a program quote a word
	// it is about to define. At the top level there is nothing to defer to.
	if inVector {
		if name := s.scanName(at); name != "" {
			s.pos = at + len(name)
			return token{kind: tokenWord, scope: scope, name: name, off: off}, nil
		}
	}
	return token{}, errf(SyntaxError, "unknown token at offset %d", off)
}

// scanName reads a maximal run of non-structural bytes starting at the
// given position, without consuming it.
func (s *scanner) scanName(at int) string {
	end := at
	for end < len(s.src) && !strings.ContainsRune(" \t\n\r'[]@*#:", rune(s.src[end])) {
		end++
	}
	return s.src[at:end]
}

func (s *scanner) scanString() (Value, error) {
	start := s.pos
	s.pos++ // opening quote
	for s.pos < len(s.src) {
		if s.src[s.pos] == '\'' {
			text := s.src[start+1 : s.pos]
			s.pos++
			return String(text), nil
		}
		s.pos++
	}
	return nil, errf(SyntaxError, "unterminated string at offset %d", start)
}

// scanVector reads a bracketed vector literal. It keeps its own stack of
// partial vectors rather than recursing, so nesting depth is bounded only
// by available memory.
func (s *scanner) scanVector() (Value, error) {
	open := []int{s.pos} // offsets of unmatched brackets, innermost last
	s.pos++
	stack := []Vector{{}}
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, errf(SyntaxError, "unmatched '[' at offset %d", open[len(open)-1])
		}
		switch s.src[s.pos] {
		case '[':
			open = append(open, s.pos)
			s.pos++
			stack = append(stack, Vector{})
		case ']':
			s.pos++
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			open = open[:len(open)-1]
			if len(stack) == 0 {
				return top, nil
			}
			stack[len(stack)-1] = append(stack[len(stack)-1], top)
		default:
			tok, err := s.next(true)
			if err != nil {
				return nil, err
			}
			i := len(stack) - 1
			switch tok.kind {
			case tokenValue:
				stack[i] = append(stack[i], tok.val)
			case tokenWord:
				stack[i] = append(stack[i], Word{Scope: tok.scope, Name: tok.name})
			case tokenColon:
				return nil, errf(SyntaxError, "':' not allowed inside a vector at offset %d", tok.off)
			}
		}
	}
}

// scanNumber recognizes [-+]?digits(/digits)? and
// [-+]?digits(.digits)?([eE][-+]?digits)?, converting exactly to a rational;
// no float is involved at any point. It consumes nothing when the current
// position does not start a number.
func (s *scanner) scanNumber() (Value, bool, error) {
	pos := s.pos
	neg := false
	if c := s.src[pos]; c == '+' || c == '-' {
		if pos+1 >= len(s.src) || !isDigit(s.src[pos+1]) {
			return nil, false, nil
		}
		neg = c == '-'
		pos++
	}
	if !isDigit(s.src[pos]) {
		return nil, false, nil
	}
	intPart := s.digits(&pos)

	// fraction literal a/b
	if pos+1 < len(s.src) && s.src[pos] == '/' && isDigit(s.src[pos+1]) {
		slash := pos
		pos++
		den := s.digits(&pos)
		d, _ := new(big.Int).SetString(den, 10)
		if d.Sign() == 0 {
			return nil, false, errf(SyntaxError, "zero denominator at offset %d", slash)
		}
		n, _ := new(big.Int).SetString(intPart, 10)
		if neg {
			n.Neg(n)
		}
		s.pos = pos
		return ratFromBig(new(big.Rat).SetFrac(n, d)), true, nil
	}

	// decimal part: A.B becomes (A*10^|B| + B) / 10^|B|
	num, _ := new(big.Int).SetString(intPart, 10)
	den := new(big.Int).Set(bigOne)
	if pos+1 < len(s.src) && s.src[pos] == '.' && isDigit(s.src[pos+1]) {
		pos++
		frac := s.digits(&pos)
		scale := new(big.Int).Exp(bigTen, big.NewInt(int64(len(frac))), nil)
		fracInt, _ := new(big.Int).SetString(frac, 10)
		num.Mul(num, scale).Add(num, fracInt)
		den = scale
	}

	// exponent shifts by an exact power of ten
	if pos < len(s.src) && (s.src[pos] == 'e' || s.src[pos] == 'E') {
		at := pos + 1
		if at < len(s.src) && (s.src[at] == '+' || s.src[at] == '-') {
			at++
		}
		if at < len(s.src) && isDigit(s.src[at]) {
			expOff := pos
			pos++
			expStr := s.src[pos:at] + s.digits(&at)
			pos = at
			exp, err := strconv.Atoi(expStr)
			if err != nil || exp > s.maxExp || exp < -s.maxExp {
				return nil, false, errf(LimitExceeded, "exponent magnitude exceeds %d at offset %d", s.maxExp, expOff)
			}
			abs := exp
			if abs < 0 {
				abs = -abs
			}
			scale := new(big.Int).Exp(bigTen, big.NewInt(int64(abs)), nil)
			if exp >= 0 {
				num.Mul(num, scale)
			} else {
				den.Mul(den, scale)
			}
		}
	}

	if neg {
		num.Neg(num)
	}
	s.pos = pos
	return ratFromBig(new(big.Rat).SetFrac(num, den)), true, nil
}

func (s *scanner) digits(pos *int) string {
	start := *pos
	for *pos < len(s.src) && isDigit(s.src[*pos]) {
		*pos++
	}
	return s.src[start:*pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
