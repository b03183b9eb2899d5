package profiler

import (
	"math"
	"strings"
)

// numericBaseTypes are declared types whose columns get numeric statistics.
var numericBaseTypes = map[string]struct{}{
	"INTEGER":  {},
	"INT":      {},
	"BIGINT":   {},
	"SMALLINT": {},
	"FLOAT":    {},
	"DOUBLE":   {},
	"REAL":     {},
	"NUMERIC":  {},
	"DECIMAL":  {},
}

// numericFragments catch dialect variants like "DOUBLE PRECISION",
// "TINYINT" or "NUMBER" that are not in the exact set.
var numericFragments = []string{"INT", "FLOAT", "DOUBLE", "REAL", "NUMER", "DECIM"}

// baseType normalizes a declared column type: upper-cased with any length
// or precision suffix stripped ("numeric(10,2)" -> "NUMERIC").
func baseType(declared string) string {
	base := strings.ToUpper(declared)
	if i := strings.Index(base, "("); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSpace(base)
}

// isNumericType reports whether a declared type belongs to the numeric
// family (integer/float/decimal) that supports min/max/mean/median/std-dev.
func isNumericType(declared string) bool {
	base := baseType(declared)
	if _, ok := numericBaseTypes[base]; ok {
		return true
	}
	for _, fragment := range numericFragments {
		if strings.Contains(base, fragment) {
			return true
		}
	}
	return false
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
