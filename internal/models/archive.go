package models

import "time"

type ArchiveKind string

const (
	ArchiveKindBackup ArchiveKind = "backup"
	ArchiveKindExport ArchiveKind = "export"
)

// ArchiveEntry is a ledger row describing a file written under the data directory.
type ArchiveEntry struct {
	ID          int64       `json:"id"`
	Kind        ArchiveKind `json:"kind"`
	Filename    string      `json:"filename"`
	Path        string      `json:"path"`
	SizeBytes   int64       `json:"sizeBytes"`
	GameCount   int         `json:"gameCount"`
	PlayerCount int         `json:"playerCount"`
	CreatedAt   time.Time   `json:"createdAt"`
	PrunedAt    *time.Time  `json:"prunedAt,omitempty"`
}

type ArchiveFilter struct {
	Kind          ArchiveKind
	IncludePruned bool
	Limit         int
	Offset        int
}

// BackupInfo describes a backup file currently on disk.
type BackupInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExportResult describes an archival export that was written.
type ExportResult struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	GameCount int    `json:"gameCount"`
	DateRange string `json:"dateRange"`
}
