// Package api defines transport-friendly views of queue and daemon state
// shared by the IPC server and the CLI.
package api

import "encoding/json"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueItem describes a queue entry in a transport-friendly format.
type QueueItem struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	SourcePath   string          `json:"sourcePath"`
	Status       string          `json:"status"`
	MediaKind    string          `json:"mediaKind,omitempty"`
	Progress     QueueProgress   `json:"progress"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
	FinalFile    string          `json:"finalFile,omitempty"`
	NeedsReview  bool            `json:"needsReview"`
	ReviewReason string          `json:"reviewReason,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// QueueProgress captures stage progress information for a queue entry.
type QueueProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *QueueItem     `json:"lastItem,omitempty"`
	StageHealth []StageHealth  `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for workflow stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	QueueDBPath  string         `json:"queueDbPath"`
	LockFilePath string         `json:"lockFilePath"`
	SourceDir    string         `json:"sourceDir"`
	LibraryDir   string         `json:"libraryDir"`
	Workflow     WorkflowStatus `json:"workflow"`
}

// QueueHealth summarizes queue counts by disposition.
type QueueHealth struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Review     int `json:"review"`
	Failed     int `json:"failed"`
	Completed  int `json:"completed"`
}

// DatabaseHealth reports queue database diagnostics.
type DatabaseHealth struct {
	DBPath           string   `json:"dbPath"`
	DatabaseExists   bool     `json:"databaseExists"`
	DatabaseReadable bool     `json:"databaseReadable"`
	TableExists      bool     `json:"tableExists"`
	MissingColumns   []string `json:"missingColumns,omitempty"`
	TotalItems       int      `json:"totalItems"`
	IntegrityCheck   bool     `json:"integrityCheck"`
	Error            string   `json:"error,omitempty"`
}
