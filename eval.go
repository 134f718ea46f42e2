package lycoris

import (
	"io"
	"strings"
)

// Evaluator holds the whole interpreter state: the value stack, the word
// dictionary, and the captured output buffer. It is strictly synchronous;
// one Execute call runs to completion or to a typed error, and nothing else
// may touch the instance meanwhile.
type Evaluator struct {
	stack []Value
	dict  dict
	out   strings.Builder
	tee   io.Writer

	logfn func(mess string, args ...interface{})

	maxExponent int
	maxDepth    int // evaluator recursion only; vector nesting is unbounded
	depth       int
}

func (e *Evaluator) logf(mess string, args ...interface{}) {
	if e.logfn != nil {
		e.logfn(mess, args...)
	}
}

// emit appends one line to the output buffer, and to the tee writer if one
// was configured.
func (e *Evaluator) emit(line string) {
	e.out.WriteString(line)
	e.out.WriteByte('\n')
	if e.tee != nil {
		io.WriteString(e.tee, line+"\n")
	}
}

func (e *Evaluator) execute(source string) error {
	toks, err := scan(source, &e.dict, e.maxExponent)
	if err == nil {
		err = e.exec(toks)
	}
	if err != nil {
		e.emit(err.Error())
	}
	return err
}

func (e *Evaluator) exec(toks []token) error {
	for _, tok := range toks {
		if tok.kind == tokenColon {
			return e.execGuards(toks)
		}
	}
	return e.execTokens(toks)
}

// execTokens applies tokens one by one. A failing token has no effect: the
// stack is restored from a pre-token snapshot (values are immutable, so a
// shallow copy is enough) and dictionary mutations are unwound from the
// journal. Effects of earlier, successful tokens are retained.
func (e *Evaluator) execTokens(toks []token) error {
	for _, tok := range toks {
		saved := append([]Value(nil), e.stack...)
		if err := e.execToken(tok); err != nil {
			e.stack = saved
			e.dict.revert()
			return err
		}
		e.dict.commit()
	}
	return nil
}

func (e *Evaluator) execToken(tok token) error {
	switch tok.kind {
	case tokenValue:
		e.logf("push %s", tok.val)
		e.push(tok.val)
		return nil
	case tokenWord:
		e.logf("exec %s%s -- s:%d", tok.scope.sigil(), tok.name, len(e.stack))
		return e.call(tok.scope, tok.name)
	}
	return errf(SyntaxError, "unexpected ':' at offset %d", tok.off)
}

// execGuards routes a token sequence of the form c1 : b1 : ... ck : bk :
// default. Conditions run in order on a speculative copy of the stack; the
// first leaving true on top selects its body, otherwise the default runs.
func (e *Evaluator) execGuards(toks []token) error {
	var segs [][]token
	seg := []token{}
	for _, tok := range toks {
		if tok.kind == tokenColon {
			segs = append(segs, seg)
			seg = []token{}
		} else {
			seg = append(seg, tok)
		}
	}
	segs = append(segs, seg)
	if len(segs)%2 == 0 {
		return errf(SyntaxError, "ill-formed guard clause: missing ':'")
	}
	for i := 0; i+1 < len(segs); i += 2 {
		match, err := e.speculate(segs[i])
		if err != nil {
			return err
		}
		if match {
			return e.execTokens(segs[i+1])
		}
	}
	return e.execTokens(segs[len(segs)-1])
}

func (e *Evaluator) speculate(cond []token) (bool, error) {
	saved := e.stack
	e.stack = append([]Value(nil), saved...)
	err := e.execTokens(cond)
	match := false
	if err == nil && len(e.stack) > 0 {
		if b, ok := e.stack[len(e.stack)-1].(Bool); ok {
			match = bool(b)
		}
	}
	e.stack = saved
	return match, err
}

func (e *Evaluator) call(scope Scope, name string) error {
	b := e.dict.lookup(name)
	if b == nil {
		return errf(UnknownWord, "unknown word %q", name)
	}
	switch scope {
	case ScopeMap:
		return e.mapOver(b)
	case ScopeReduce:
		return e.reduceOver(b)
	case ScopeGlobal:
		return e.globalOver(b)
	}
	return e.invoke(b)
}

func (e *Evaluator) invoke(b *binding) error {
	if b.isBuiltin() {
		return b.builtin(e)
	}
	return e.runVector(b.body)
}

// runVector realizes a vector as code: word references execute, everything
// else pushes itself. This is the recursion point for run, user words, and
// the scope modifiers, so the depth bound lives here.
func (e *Evaluator) runVector(v Vector) error {
	if e.depth >= e.maxDepth {
		return errf(LimitExceeded, "recursion depth exceeds %d", e.maxDepth)
	}
	e.depth++
	defer func() { e.depth-- }()
	for _, el := range v {
		if w, ok := el.(Word); ok {
			if err := e.call(w.Scope, w.Name); err != nil {
				return err
			}
		} else {
			e.push(el)
		}
	}
	return nil
}

// mapOver executes the word once per element of the popped vector and
// re-collects the results in order. Values above the vector are shared
// operands: [1 2 3] 2 @mul runs "e 2 mul" per element. Each element runs in
// its own stack context and must reduce it to exactly one value.
func (e *Evaluator) mapOver(b *binding) error {
	var extras []Value // operands above the vector, top first
	var v Vector
	for {
		val, err := e.pop()
		if err != nil {
			return errf(TypeError, "@%s requires a vector", b.name)
		}
		if vec, ok := val.(Vector); ok {
			v = vec
			break
		}
		extras = append(extras, val)
	}
	saved := e.stack
	results := make(Vector, 0, len(v))
	for _, el := range v {
		ctx := make([]Value, 0, 1+len(extras))
		ctx = append(ctx, el)
		for i := len(extras) - 1; i >= 0; i-- {
			ctx = append(ctx, extras[i])
		}
		e.stack = ctx
		if err := e.invoke(b); err != nil {
			e.stack = saved
			return err
		}
		if len(e.stack) != 1 {
			n := len(e.stack)
			e.stack = saved
			return errf(ArityError, "@%s left %d values for one element", b.name, n)
		}
		results = append(results, e.stack[0])
	}
	e.stack = saved
	e.push(results)
	return nil
}

// reduceOver folds the popped vector from the left: seed is the first
// element, and the word must consume two values and produce one.
func (e *Evaluator) reduceOver(b *binding) error {
	v, err := e.popVector("*" + b.name)
	if err != nil {
		return err
	}
	if len(v) == 0 {
		return errf(DomainError, "cannot reduce an empty vector")
	}
	saved := e.stack
	seed := v[0]
	for _, el := range v[1:] {
		e.stack = []Value{seed, el}
		if err := e.invoke(b); err != nil {
			e.stack = saved
			return err
		}
		if len(e.stack) != 1 {
			n := len(e.stack)
			e.stack = saved
			return errf(ArityError, "*%s must consume two values and produce one, left %d", b.name, n)
		}
		seed = e.stack[0]
	}
	e.stack = saved
	e.push(seed)
	return nil
}

// globalOver gathers the entire stack into one vector and applies the word
// to it once with local semantics.
func (e *Evaluator) globalOver(b *binding) error {
	if len(e.stack) == 0 {
		return errf(ArityError, "stack is empty")
	}
	all := Vector(append([]Value(nil), e.stack...))
	e.stack = e.stack[:0]
	e.push(all)
	return e.invoke(b)
}

func (e *Evaluator) push(v Value) { e.stack = append(e.stack, v) }

func (e *Evaluator) pop() (Value, error) {
	if len(e.stack) == 0 {
		return nil, errf(ArityError, "stack underflow")
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

func (e *Evaluator) popRational(word string) (Rational, error) {
	v, err := e.pop()
	if err != nil {
		return Rational{}, err
	}
	r, ok := v.(Rational)
	if !ok {
		return Rational{}, errf(TypeError, "%s requires a number, got %s", word, typeName(v))
	}
	return r, nil
}

// popRational2 pops b then a, returning them in stack order (a below b).
func (e *Evaluator) popRational2(word string) (Rational, Rational, error) {
	vb, err := e.pop()
	if err != nil {
		return Rational{}, Rational{}, err
	}
	va, err := e.pop()
	if err != nil {
		return Rational{}, Rational{}, err
	}
	a, aok := va.(Rational)
	b, bok := vb.(Rational)
	if !aok || !bok {
		return Rational{}, Rational{}, errf(TypeError, "%s requires two numbers", word)
	}
	return a, b, nil
}

func (e *Evaluator) popVector(word string) (Vector, error) {
	v, err := e.pop()
	if err != nil {
		return nil, err
	}
	vec, ok := v.(Vector)
	if !ok {
		return nil, errf(TypeError, "%s requires a vector, got %s", word, typeName(v))
	}
	return vec, nil
}

func (e *Evaluator) popString(word string) (String, error) {
	v, err := e.pop()
	if err != nil {
		return "", err
	}
	s, ok := v.(String)
	if !ok {
		return "", errf(TypeError, "%s requires a string, got %s", word, typeName(v))
	}
	return s, nil
}

// popIndex pops an integer rational, for counts and vector indexes.
func (e *Evaluator) popIndex(word string) (int, error) {
	r, err := e.popRational(word)
	if err != nil {
		return 0, err
	}
	n, ok := r.intVal()
	if !ok {
		return 0, errf(DomainError, "%s requires an integer, got %s", word, r)
	}
	return n, nil
}
