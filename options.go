package lycoris

import "io"

type Option interface{ apply(e *Evaluator) }

var defaults = []Option{
	withMaxExponent(10000),
	withMaxDepth(1024),
}

func (e *Evaluator) apply(opts ...Option) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(e)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(e)
		}
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(e *Evaluator) {
	e.logfn = logfn
}

type maxExponentOption int
type maxDepthOption int
type teeOption struct{ io.Writer }

func withMaxExponent(limit int) maxExponentOption { return maxExponentOption(limit) }
func withMaxDepth(limit int) maxDepthOption       { return maxDepthOption(limit) }
func withTee(w io.Writer) teeOption               { return teeOption{w} }

func (lim maxExponentOption) apply(e *Evaluator) {
	e.maxExponent = int(lim)
}

func (lim maxDepthOption) apply(e *Evaluator) {
	e.maxDepth = int(lim)
}

func (o teeOption) apply(e *Evaluator) {
	e.tee = o.Writer
}
