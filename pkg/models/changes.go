package models

// ChangeReport is the result of a lightweight change check: row counts per
// table compared against the previous snapshot. It signals whether a full
// re-profile is worthwhile without paying for one.
type ChangeReport struct {
	ServiceName   string           `json:"service_name"`
	CurrentCounts map[string]int64 `json:"current_counts"`
	ChangedTables []string         `json:"changed_tables"`
	IsFirstCheck  bool             `json:"is_first_check"`
	HasChanges    bool             `json:"has_changes"`
}
