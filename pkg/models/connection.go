package models

// ConnectionInfo describes one registered datasource connection.
// Credentials never appear here; only addressing fields safe to return.
type ConnectionInfo struct {
	ServiceName string `json:"service_name"`
	Type        string `json:"type"`
	Host        string `json:"host,omitempty"`
	Database    string `json:"database,omitempty"`
	Path        string `json:"path,omitempty"` // sqlite file path
	Status      string `json:"status"`
}
