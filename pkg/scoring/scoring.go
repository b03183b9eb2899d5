// Package scoring collapses per-column quality metrics into the weighted
// 0-100 aggregate score and its presentation forms (grade, badge color).
package scoring

import (
	"math"
	"time"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// Component weights. They sum to 1.
const (
	weightCompleteness = 0.50
	weightUniqueness   = 0.30
	weightFreshness    = 0.20
)

// Neutral is the component value used when a signal is unavailable,
// such as a table with no key columns or no detectable timestamp column.
const Neutral = 0.50

// Components are the three normalized score inputs, each in [0, 1].
type Components struct {
	Completeness float64
	Uniqueness   float64
	Freshness    float64
}

// ComputeComponents derives the score components from profiled columns.
// Completeness averages over every column; uniqueness averages
// distinctness over key columns only, falling back to Neutral when the
// table has none. keyColumns names the primary and foreign key columns.
func ComputeComponents(columns []models.ColumnMetric, keyColumns []string, freshness *time.Time, now time.Time) Components {
	keys := make(map[string]struct{}, len(keyColumns))
	for _, name := range keyColumns {
		keys[name] = struct{}{}
	}

	var completenessSum float64
	var keySum float64
	var keyCount int
	for _, col := range columns {
		completenessSum += col.CompletenessPct
		if _, ok := keys[col.ColumnName]; ok {
			keySum += col.DistinctnessPct
			keyCount++
		}
	}

	c := Components{
		Uniqueness: Neutral,
		Freshness:  FreshnessScore(freshness, now),
	}
	if len(columns) > 0 {
		c.Completeness = completenessSum / float64(len(columns)) / 100
	}
	if keyCount > 0 {
		c.Uniqueness = keySum / float64(keyCount) / 100
	}
	return c
}

// FreshnessScore maps the age of the latest timestamp onto score steps.
// A nil timestamp means freshness could not be determined and scores
// Neutral rather than penalizing the table.
func FreshnessScore(ts *time.Time, now time.Time) float64 {
	if ts == nil {
		return Neutral
	}

	age := now.Sub(*ts)
	switch {
	case age < time.Hour:
		return 1.00
	case age < 24*time.Hour:
		return 0.90
	case age < 7*24*time.Hour:
		return 0.75
	case age < 30*24*time.Hour:
		return 0.50
	default:
		return 0.25
	}
}

// Score collapses the components into the weighted aggregate, clamped to
// [0, 100] and rounded to 1 decimal.
func (c Components) Score() float64 {
	raw := 100 * (weightCompleteness*c.Completeness +
		weightUniqueness*c.Uniqueness +
		weightFreshness*c.Freshness)
	return round(math.Min(100, math.Max(0, raw)), 1)
}

// Grade maps a score to its letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// Badge maps a score to its dashboard badge color. Badge thresholds are
// coarser than grades: amber spans both B and C.
func Badge(score float64) string {
	switch {
	case score >= 90:
		return models.BadgeGreen
	case score >= 70:
		return models.BadgeAmber
	case score >= 50:
		return models.BadgeRed
	default:
		return models.BadgeCritical
	}
}

// OverallCompleteness is the mean column completeness rounded to 2
// decimals, 0 for a table with no profiled columns.
func OverallCompleteness(columns []models.ColumnMetric) float64 {
	if len(columns) == 0 {
		return 0
	}

	var sum float64
	for _, col := range columns {
		sum += col.CompletenessPct
	}
	return round(sum/float64(len(columns)), 2)
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
