package lycoris

import "io"

// New returns a fresh evaluator: empty stack, seeded builtins, empty output.
func New(opts ...Option) *Evaluator {
	var e Evaluator
	e.apply(opts...)
	seedBuiltins(&e.dict)
	return &e
}

// Execute tokenizes and runs source against the evaluator state. It returns
// the accumulated output buffer, and the typed error that aborted execution
// if any; on failure the stack and dictionary hold the state from just
// before the failing token, and the error text is appended to the output.
func (e *Evaluator) Execute(source string) (string, error) {
	err := e.execute(source)
	return e.out.String(), err
}

// StackSnapshot lists the canonical form of every stack value, bottom to
// top.
func (e *Evaluator) StackSnapshot() []string {
	out := make([]string, len(e.stack))
	for i, v := range e.stack {
		out[i] = v.String()
	}
	return out
}

// DictionarySnapshot lists the user entries in insertion order; builtins
// are not included.
func (e *Evaluator) DictionarySnapshot() []DictEntry {
	return e.dictionarySnapshot()
}

// OutputBuffer returns the accumulated output text without clearing it.
func (e *Evaluator) OutputBuffer() string { return e.out.String() }

// SaveState serializes the user dictionary portion of the evaluator state.
func (e *Evaluator) SaveState() ([]byte, error) { return e.saveState() }

// LoadState installs the user entries from a SaveState blob, returning one
// error per corrupt entry; corrupt entries are skipped, the rest install.
func (e *Evaluator) LoadState(blob []byte) []error { return e.loadState(blob) }

// Reset discards the stack, the output buffer, and every user definition,
// returning the evaluator to its New state with the same options.
func (e *Evaluator) Reset() {
	e.stack = nil
	e.out.Reset()
	e.depth = 0
	e.dict = dict{}
	seedBuiltins(&e.dict)
}

func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }
func WithOutput(w io.Writer) Option                                { return withTee(w) }
func WithMaxExponent(limit int) Option                             { return withMaxExponent(limit) }
func WithMaxDepth(limit int) Option                                { return withMaxDepth(limit) }
