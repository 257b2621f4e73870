package script

import (
	"math/big"
	"strings"
)

// Number is an arbitrary-precision decimal carrying the fixed-point scale it
// encodes to. A scale of 18 matches token amounts; a scale of 0 is a plain
// integer.
type Number struct {
	rat   *big.Rat
	scale int
}

// ParseNumber reads a numeric token: plain integers, decimal notation,
// exponent notation, and 0x hex integers.
func ParseNumber(token string, scale int) (*Number, bool) {
	if token == "" || strings.ContainsRune(token, '/') {
		return nil, false
	}
	if hex, ok := trimHexPrefix(token); ok {
		i, ok := new(big.Int).SetString(hex, 16)
		if !ok {
			return nil, false
		}
		return &Number{rat: new(big.Rat).SetInt(i), scale: scale}, true
	}
	r, ok := new(big.Rat).SetString(token)
	if !ok {
		return nil, false
	}
	return &Number{rat: r, scale: scale}, true
}

// NumberFromMantissa rebuilds the decimal a fixed-point mantissa encodes,
// the inverse of Mantissa for exactly representable values.
func NumberFromMantissa(mantissa *big.Int, scale int) *Number {
	return &Number{rat: new(big.Rat).SetFrac(mantissa, pow10(scale)), scale: scale}
}

// NumberFromInt wraps an integer at scale 0.
func NumberFromInt(n int64) *Number {
	return &Number{rat: new(big.Rat).SetInt64(n)}
}

// Scale returns the fixed-point scale the number encodes to.
func (n *Number) Scale() int { return n.scale }

// Mantissa converts to the fixed-point integer representation, truncating
// toward zero when the value is not exactly representable at the scale.
func (n *Number) Mantissa() *big.Int {
	m := new(big.Int).Mul(n.rat.Num(), pow10(n.scale))
	return m.Quo(m, n.rat.Denom())
}

// Cmp compares two numbers by value, ignoring scale.
func (n *Number) Cmp(other *Number) int {
	return n.rat.Cmp(other.rat)
}

// Show renders the exact decimal form with no trailing zeros. Values whose
// reduced denominator is not a product of twos and fives cannot terminate;
// those render at the number's own scale.
func (n *Number) Show() string {
	digits, exact := decimalDigits(n.rat.Denom())
	if !exact {
		return n.rat.FloatString(n.scale)
	}
	if digits == 0 {
		return n.rat.Num().String()
	}
	s := n.rat.FloatString(digits)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// decimalDigits returns how many decimal digits terminate a fraction with
// the given reduced denominator, and whether it terminates at all.
func decimalDigits(denom *big.Int) (int, bool) {
	d := new(big.Int).Set(denom)
	var twos, fives int
	two, five := big.NewInt(2), big.NewInt(5)
	rem := new(big.Int)
	for {
		q, r := new(big.Int).QuoRem(d, two, rem)
		if r.Sign() != 0 {
			break
		}
		d, twos = q, twos+1
	}
	for {
		q, r := new(big.Int).QuoRem(d, five, rem)
		if r.Sign() != 0 {
			break
		}
		d, fives = q, fives+1
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	if fives > twos {
		return fives, true
	}
	return twos, true
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func trimHexPrefix(s string) (string, bool) {
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")
	if len(body) > 2 && (strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X")) {
		if neg {
			return "-" + body[2:], true
		}
		return body[2:], true
	}
	return "", false
}
