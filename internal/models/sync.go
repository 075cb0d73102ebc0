package models

// SyncStatus answers a client's freshness check. Data is only populated when
// NeedsUpdate is true.
type SyncStatus struct {
	NeedsUpdate     bool      `json:"needsUpdate"`
	ServerTimestamp string    `json:"serverTimestamp"`
	Data            *Snapshot `json:"data"`
}
