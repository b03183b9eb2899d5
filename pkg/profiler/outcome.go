package profiler

import "fmt"

// Stage identifies which metric query a skip happened in.
type Stage string

const (
	StageCompleteness Stage = "completeness"
	StageDistinctness Stage = "distinctness"
	StageTopValues    Stage = "top_values"
	StageMinMax       Stage = "min_max"
	StageMean         Stage = "mean"
	StageStdDev       Stage = "std_dev"
	StageMedian       Stage = "median"
	StageFreshness    Stage = "freshness"
)

// ColumnSkip records one metric that could not be computed and why.
// A skip in the completeness or distinctness stage drops the whole column
// from the profile; any other stage only leaves that statistic unset.
type ColumnSkip struct {
	Column string
	Stage  Stage
	Err    error
}

func (s ColumnSkip) String() string {
	return fmt.Sprintf("%s: %s: %v", s.Column, s.Stage, s.Err)
}

// DropsColumn reports whether this skip excludes the column entirely.
func (s ColumnSkip) DropsColumn() bool {
	return s.Stage == StageCompleteness || s.Stage == StageDistinctness
}
