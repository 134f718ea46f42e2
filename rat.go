package lycoris

import "math/big"

// Exact arithmetic over Rational values. Everything is backed by big.Rat,
// which keeps results reduced with a positive denominator; no operation here
// ever touches a float.

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

func ratFromInt(n int64) Rational { return Rational{new(big.Rat).SetInt64(n)} }

func ratFrac(num, den int64) Rational { return Rational{big.NewRat(num, den)} }

func ratFromBig(r *big.Rat) Rational { return Rational{r} }

func (v Rational) isInt() bool { return v.rat.IsInt() }

// intVal returns the numerator as an int, for stack counts and vector
// indexes. The ok result is false for non-integers and out-of-range values.
func (v Rational) intVal() (int, bool) {
	if !v.rat.IsInt() || !v.rat.Num().IsInt64() {
		return 0, false
	}
	n := v.rat.Num().Int64()
	if n < int64(minInt) || n > int64(maxInt) {
		return 0, false
	}
	return int(n), true
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)

func ratAdd(a, b Rational) Rational { return Rational{new(big.Rat).Add(a.rat, b.rat)} }
func ratSub(a, b Rational) Rational { return Rational{new(big.Rat).Sub(a.rat, b.rat)} }
func ratMul(a, b Rational) Rational { return Rational{new(big.Rat).Mul(a.rat, b.rat)} }

func ratDiv(a, b Rational) (Rational, error) {
	if b.rat.Sign() == 0 {
		return Rational{}, errf(DomainError, "division by zero")
	}
	return Rational{new(big.Rat).Quo(a.rat, b.rat)}, nil
}

// ratPow raises a to an integer exponent. A negative exponent inverts first;
// the exponent magnitude is capped to reject catastrophic work.
func ratPow(a, e Rational, maxExponent int) (Rational, error) {
	if !e.isInt() {
		return Rational{}, errf(DomainError, "pow requires an integer exponent")
	}
	n, ok := e.intVal()
	if !ok {
		return Rational{}, errf(LimitExceeded, "exponent out of range")
	}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if abs > maxExponent {
		return Rational{}, errf(LimitExceeded, "exponent magnitude exceeds %d", maxExponent)
	}
	if n < 0 && a.rat.Sign() == 0 {
		return Rational{}, errf(DomainError, "zero to a negative power")
	}
	exp := big.NewInt(int64(abs))
	num := new(big.Int).Exp(a.rat.Num(), exp, nil)
	den := new(big.Int).Exp(a.rat.Denom(), exp, nil)
	if n < 0 {
		num, den = den, num
	}
	return Rational{new(big.Rat).SetFrac(num, den)}, nil
}

// ratMod is defined on integers only. The result follows big.Int.Mod, so it
// is never negative.
func ratMod(a, b Rational) (Rational, error) {
	if !a.isInt() || !b.isInt() {
		return Rational{}, errf(DomainError, "mod requires two integers")
	}
	if b.rat.Sign() == 0 {
		return Rational{}, errf(DomainError, "division by zero")
	}
	m := new(big.Int).Mod(a.rat.Num(), b.rat.Num())
	return Rational{new(big.Rat).SetInt(m)}, nil
}

func ratNeg(a Rational) Rational { return Rational{new(big.Rat).Neg(a.rat)} }
func ratAbs(a Rational) Rational { return Rational{new(big.Rat).Abs(a.rat)} }

func ratSign(a Rational) Rational { return ratFromInt(int64(a.rat.Sign())) }

// ratCmp compares a.num*b.den against b.num*a.den; big.Rat.Cmp does exactly
// that cross-multiplication since both denominators are positive.
func ratCmp(a, b Rational) int { return a.rat.Cmp(b.rat) }
