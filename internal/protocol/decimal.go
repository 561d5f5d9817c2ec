package protocol

import (
	"math/big"
)

// Decimal is a HANA DECIMAL or FIXED8/12/16 value: an arbitrary-precision
// integer mantissa scaled by 10^Exp.
type Decimal struct {
	Mantissa *big.Int
	Exp      int
}

// Rat returns d as an exact *big.Rat.
func (d Decimal) Rat() *big.Rat {
	r := new(big.Rat).SetInt(d.Mantissa)
	if d.Exp == 0 {
		return r
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(d.Exp))), nil)
	if d.Exp > 0 {
		r.Mul(r, new(big.Rat).SetInt(scale))
	} else {
		r.Quo(r, new(big.Rat).SetInt(scale))
	}
	return r
}

func (d Decimal) String() string {
	if d.Mantissa == nil {
		return "<nil>"
	}
	return d.Rat().FloatString(decimalDisplayPrecision(d.Exp))
}

func decimalDisplayPrecision(exp int) int {
	if exp >= 0 {
		return 0
	}
	return -exp
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
