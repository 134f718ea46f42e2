package lycoris

import "strings"

// defaultWordColor is the display color recorded for user definitions;
// builtins are conventionally shown red by hosts and are not stored.
const defaultWordColor = "green"

// builtinWords is the seeded dictionary, in the order the words word
// reports them. The scope-modified forms (@add, *add, #length, ...) are not
// separate entries; they fall out of scope dispatch in the evaluator.
var builtinWords = []struct {
	name string
	fn   func(*Evaluator) error
}{
	{"add", binaryOp("add", func(a, b Rational) (Rational, error) { return ratAdd(a, b), nil })},
	{"sub", binaryOp("sub", func(a, b Rational) (Rational, error) { return ratSub(a, b), nil })},
	{"mul", binaryOp("mul", func(a, b Rational) (Rational, error) { return ratMul(a, b), nil })},
	{"div", binaryOp("div", ratDiv)},
	{"pow", builtinPow},
	{"mod", binaryOp("mod", ratMod)},
	{"neg", unaryOp("neg", ratNeg)},
	{"abs", unaryOp("abs", ratAbs)},
	{"sign", unaryOp("sign", ratSign)},

	{"eq", builtinEq},
	{"lt", compareOp("lt", func(c int) bool { return c < 0 })},
	{"gt", compareOp("gt", func(c int) bool { return c > 0 })},
	{"le", compareOp("le", func(c int) bool { return c <= 0 })},
	{"ge", compareOp("ge", func(c int) bool { return c >= 0 })},

	{"dup", builtinDup},
	{"drop", builtinDrop},
	{"swap", builtinSwap},
	{"over", builtinOver},
	{"rot", builtinRot},

	{"vec", builtinVec},
	{"unpack", builtinUnpack},
	{"nth", builtinNth},
	{"get", builtinNth},
	{"set", builtinSet},
	{"slice", builtinSlice},
	{"length", builtinLength},
	{"concat", builtinConcat},
	{"append", builtinAppend},

	{"run", builtinRun},
	{"quote", builtinQuote},

	{"def", builtinDef},
	{"undef", builtinUndef},

	{"print", builtinPrint},
	{"clear", builtinClear},
}

// The "words" entry is appended here, rather than in the builtinWords
// literal above, because builtinWordsWord enumerates builtinWords: including
// it directly in the literal would create an initialization cycle.
func init() {
	builtinWords = append(builtinWords, struct {
		name string
		fn   func(*Evaluator) error
	}{"words", builtinWordsWord})
}

func seedBuiltins(d *dict) {
	for _, w := range builtinWords {
		d.seed(w.name, w.fn)
	}
}

func binaryOp(name string, op func(a, b Rational) (Rational, error)) func(*Evaluator) error {
	return func(e *Evaluator) error {
		a, b, err := e.popRational2(name)
		if err != nil {
			return err
		}
		r, err := op(a, b)
		if err != nil {
			return err
		}
		e.push(r)
		return nil
	}
}

func unaryOp(name string, op func(Rational) Rational) func(*Evaluator) error {
	return func(e *Evaluator) error {
		a, err := e.popRational(name)
		if err != nil {
			return err
		}
		e.push(op(a))
		return nil
	}
}

func compareOp(name string, keep func(c int) bool) func(*Evaluator) error {
	return func(e *Evaluator) error {
		a, b, err := e.popRational2(name)
		if err != nil {
			return err
		}
		e.push(Bool(keep(ratCmp(a, b))))
		return nil
	}
}

func builtinPow(e *Evaluator) error {
	a, b, err := e.popRational2("pow")
	if err != nil {
		return err
	}
	r, err := ratPow(a, b, e.maxExponent)
	if err != nil {
		return err
	}
	e.push(r)
	return nil
}

func builtinEq(e *Evaluator) error {
	b, err := e.pop()
	if err != nil {
		return err
	}
	a, err := e.pop()
	if err != nil {
		return err
	}
	e.push(Bool(equal(a, b)))
	return nil
}

func builtinDup(e *Evaluator) error {
	if len(e.stack) == 0 {
		return errf(ArityError, "stack underflow")
	}
	e.push(e.stack[len(e.stack)-1])
	return nil
}

func builtinDrop(e *Evaluator) error {
	_, err := e.pop()
	return err
}

func builtinSwap(e *Evaluator) error {
	if len(e.stack) < 2 {
		return errf(ArityError, "stack underflow")
	}
	i := len(e.stack)
	e.stack[i-2], e.stack[i-1] = e.stack[i-1], e.stack[i-2]
	return nil
}

func builtinOver(e *Evaluator) error {
	if len(e.stack) < 2 {
		return errf(ArityError, "stack underflow")
	}
	e.push(e.stack[len(e.stack)-2])
	return nil
}

func builtinRot(e *Evaluator) error {
	if len(e.stack) < 3 {
		return errf(ArityError, "stack underflow")
	}
	i := len(e.stack)
	a, b, c := e.stack[i-3], e.stack[i-2], e.stack[i-1]
	e.stack[i-3], e.stack[i-2], e.stack[i-1] = b, c, a
	return nil
}

func builtinVec(e *Evaluator) error {
	n, err := e.popIndex("vec")
	if err != nil {
		return err
	}
	if n < 0 {
		return errf(DomainError, "vec requires a non-negative count")
	}
	if len(e.stack) < n {
		return errf(ArityError, "stack underflow")
	}
	start := len(e.stack) - n
	v := Vector(append([]Value(nil), e.stack[start:]...))
	e.stack = e.stack[:start]
	e.push(v)
	return nil
}

func builtinUnpack(e *Evaluator) error {
	v, err := e.popVector("unpack")
	if err != nil {
		return err
	}
	e.stack = append(e.stack, v...)
	return nil
}

// resolveIndex applies the negative-index rule: -1 is the last element.
func resolveIndex(idx, length int) (int, error) {
	at := idx
	if at < 0 {
		at += length
	}
	if at < 0 || at >= length {
		return 0, errf(IndexError, "index %d out of range for length %d", idx, length)
	}
	return at, nil
}

func builtinNth(e *Evaluator) error {
	idx, err := e.popIndex("nth")
	if err != nil {
		return err
	}
	v, err := e.popVector("nth")
	if err != nil {
		return err
	}
	at, err := resolveIndex(idx, len(v))
	if err != nil {
		return err
	}
	e.push(v[at])
	return nil
}

func builtinSet(e *Evaluator) error {
	val, err := e.pop()
	if err != nil {
		return err
	}
	idx, err := e.popIndex("set")
	if err != nil {
		return err
	}
	v, err := e.popVector("set")
	if err != nil {
		return err
	}
	at, err := resolveIndex(idx, len(v))
	if err != nil {
		return err
	}
	out := append(Vector(nil), v...)
	out[at] = val
	e.push(out)
	return nil
}

func builtinSlice(e *Evaluator) error {
	end, err := e.popIndex("slice")
	if err != nil {
		return err
	}
	start, err := e.popIndex("slice")
	if err != nil {
		return err
	}
	v, err := e.popVector("slice")
	if err != nil {
		return err
	}
	if start < 0 {
		start += len(v)
	}
	if end < 0 {
		end += len(v)
	}
	if start < 0 || end < start || end > len(v) {
		return errf(IndexError, "slice bounds [%d:%d] out of range for length %d", start, end, len(v))
	}
	e.push(Vector(append([]Value(nil), v[start:end]...)))
	return nil
}

func builtinLength(e *Evaluator) error {
	v, err := e.popVector("length")
	if err != nil {
		return err
	}
	e.push(ratFromInt(int64(len(v))))
	return nil
}

func builtinConcat(e *Evaluator) error {
	b, err := e.popVector("concat")
	if err != nil {
		return err
	}
	a, err := e.popVector("concat")
	if err != nil {
		return err
	}
	e.push(Vector(append(append([]Value(nil), a...), b...)))
	return nil
}

func builtinAppend(e *Evaluator) error {
	val, err := e.pop()
	if err != nil {
		return err
	}
	v, err := e.popVector("append")
	if err != nil {
		return err
	}
	e.push(Vector(append(append([]Value(nil), v...), val)))
	return nil
}

func builtinRun(e *Evaluator) error {
	v, err := e.popVector("run")
	if err != nil {
		return err
	}
	return e.runVector(v)
}

func builtinQuote(e *Evaluator) error {
	v, err := e.pop()
	if err != nil {
		return err
	}
	e.push(Vector{v})
	return nil
}

func builtinDef(e *Evaluator) error {
	name, err := e.popString("def")
	if err != nil {
		return err
	}
	body, err := e.popVector("def")
	if err != nil {
		return err
	}
	return e.dict.define(string(name), body, body.String(), defaultWordColor)
}

func builtinUndef(e *Evaluator) error {
	name, err := e.popString("undef")
	if err != nil {
		return err
	}
	return e.dict.undefine(string(name))
}

func builtinWordsWord(e *Evaluator) error {
	names := make([]string, 0, len(builtinWords)+len(e.dict.order))
	for _, w := range builtinWords {
		names = append(names, w.name)
	}
	names = append(names, e.dict.order...)
	e.emit(strings.Join(names, " "))
	return nil
}

func builtinPrint(e *Evaluator) error {
	v, err := e.pop()
	if err != nil {
		return err
	}
	e.emit(v.String())
	return nil
}

func builtinClear(e *Evaluator) error {
	e.out.Reset()
	return nil
}
