package mcp

// ListBordersInput is the input for the list_borders tool.
type ListBordersInput struct {
	VisibleOnly bool   `json:"visible_only,omitempty" jsonschema:"When true, only borders whose overlay is currently shown are returned"`
	Class       string `json:"class,omitempty" jsonschema:"Optional case-insensitive substring filter on the window class"`
}

// BorderInfo describes a single live border.
type BorderInfo struct {
	Window  string `json:"window"`
	Overlay string `json:"overlay"`
	State   string `json:"state"`
	Visible bool   `json:"visible"`
	Active  bool   `json:"active"`
	Title   string `json:"title,omitempty"`
	Class   string `json:"class,omitempty"`
}

// ListBordersOutput is the output for the list_borders tool.
type ListBordersOutput struct {
	Count   int          `json:"count"`
	Borders []BorderInfo `json:"borders"`
}

// ReloadBordersInput is the input for the reload_borders tool.
type ReloadBordersInput struct{}

// ReloadBordersOutput is the output for the reload_borders tool.
type ReloadBordersOutput struct {
	Reloaded    bool `json:"reloaded"`
	BorderCount int  `json:"border_count"`
}

// DaemonStatusInput is the input for the daemon_status tool.
type DaemonStatusInput struct{}

// DaemonStatusOutput is the output for the daemon_status tool.
type DaemonStatusOutput struct {
	Running       bool   `json:"running"`
	BorderCount   int    `json:"border_count"`
	VisibleCount  int    `json:"visible_count"`
	ActiveWindow  string `json:"active_window,omitempty"`
	ConfigPath    string `json:"config_path,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Error         string `json:"error,omitempty"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorInfo describes one monitor and the area left after docks and panels.
type MonitorInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UsableX      int    `json:"usable_x"`
	UsableY      int    `json:"usable_y"`
	UsableWidth  int    `json:"usable_width"`
	UsableHeight int    `json:"usable_height"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}
