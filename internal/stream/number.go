package stream

import (
	"math"
	"strconv"
	"strings"
)

// Number is a float64 that always renders with a fractional part or an
// exponent, so consumers can tell it apart from an integer: 0 is written as
// 0.0, negative zero as -0.0, 1e21 as 1e21. Non-finite values are null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(formatNumber(float64(n))), nil
}

func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-5 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		exp = strings.TrimPrefix(exp, "+")

		sign := ""
		if strings.HasPrefix(exp, "-") {
			sign, exp = "-", exp[1:]
		}
		exp = strings.TrimLeft(exp, "0")
		return mantissa + "e" + sign + exp
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
