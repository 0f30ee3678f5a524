package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RenameRequest is the body of a channel rename call.
type RenameRequest struct {
	// Scope is "short" ($PnN) or "long" ($PnS); default short.
	Scope string `json:"scope,omitempty"`
	// Renames maps current channel names to replacements, applied
	// simultaneously.
	Renames map[string]string `json:"renames"`
}

// FileInfo summarizes one FCS file in the data directory.
type FileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size_bytes"`
	Modified string `json:"modified"`
}

// FileDetail is the decoded HEADER+TEXT view of one file.
type FileDetail struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Events   int               `json:"events"`
	Datatype string            `json:"datatype"`
	Channels []ChannelInfo     `json:"channels"`
	Keywords map[string]string `json:"keywords"`
}

// ChannelInfo is one parameter's identity and encoding.
type ChannelInfo struct {
	Short string `json:"short"`
	Long  string `json:"long"`
	Bits  int    `json:"bits"`
	Range uint64 `json:"range"`
}

// EventsResponse carries decoded event rows.
type EventsResponse struct {
	Channels []string    `json:"channels"`
	Events   int         `json:"events"`
	Rows     [][]float64 `json:"rows"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	Bind    string
	APIKey  string
	DataDir string
}
