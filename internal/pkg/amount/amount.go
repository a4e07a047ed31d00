// Package amount converts between human decimal token amounts and integer
// base units. All conversions are exact: big.Int plus string slicing, no
// floating point anywhere.
package amount

import (
	"fmt"
	"math/big"
	"strings"
)

// ToBaseUnits converts a decimal string such as "123.456" into integer base
// units using the given decimals count. Amounts with more fractional digits
// than decimals are rejected rather than rounded. Token amounts are never
// negative: a signed input is rejected before it can reach an ABI encoder,
// where a negative big.Int would wrap mod 2^256 into a huge unsigned value.
func ToBaseUnits(value string, decimals int) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if decimals < 0 {
		return nil, fmt.Errorf("invalid decimals %d", decimals)
	}

	if strings.HasPrefix(value, "-") {
		return nil, fmt.Errorf("negative amount %q is not allowed", value)
	}
	if strings.HasPrefix(value, "+") {
		value = value[1:]
	}

	intPart := value
	fracPart := ""
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		intPart = value[:dot]
		fracPart = value[dot+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("malformed amount %q", value)
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, fmt.Errorf("malformed amount %q", value)
	}
	if len(fracPart) > decimals {
		return nil, fmt.Errorf("amount %q has %d fractional digits, token supports %d", value, len(fracPart), decimals)
	}

	// Scale by appending zeros; the concatenated digit string is the exact
	// base-unit value.
	digits := intPart + fracPart + strings.Repeat("0", decimals-len(fracPart))
	units, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("failed to parse amount %q", value)
	}
	return units, nil
}

// FromBaseUnits formats integer base units as a decimal string, trimming
// trailing fractional zeros. It never rounds.
func FromBaseUnits(units *big.Int, decimals int) string {
	if units == nil {
		return "0"
	}
	digits := new(big.Int).Abs(units).String()
	var result string
	if decimals <= 0 {
		result = digits
	} else if len(digits) > decimals {
		result = digits[:len(digits)-decimals] + "." + digits[len(digits)-decimals:]
	} else {
		result = "0." + strings.Repeat("0", decimals-len(digits)) + digits
	}

	if strings.Contains(result, ".") {
		result = strings.TrimRight(result, "0")
		result = strings.TrimRight(result, ".")
	}
	if result == "" {
		result = "0"
	}
	if units.Sign() < 0 && result != "0" {
		result = "-" + result
	}
	return result
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
