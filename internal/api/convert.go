package api

import (
	"encoding/json"
	"slices"

	"carousel/internal/queue"
	"carousel/internal/workflow"
)

// FromQueueItem converts a queue record to its API representation.
func FromQueueItem(item *queue.Item) QueueItem {
	if item == nil {
		return QueueItem{}
	}

	dto := QueueItem{
		ID:         item.ID,
		Title:      item.DisplayTitle,
		SourcePath: item.SourcePath,
		Status:     string(item.Status),
		MediaKind:  item.MediaKind,
		Progress: QueueProgress{
			Stage:   item.ProgressStage,
			Percent: item.ProgressPercent,
			Message: item.ProgressMessage,
		},
		ErrorMessage: item.ErrorMessage,
		FinalFile:    item.FinalFile,
		NeedsReview:  item.NeedsReview,
		ReviewReason: item.ReviewReason,
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	if raw := item.MetadataJSON; raw != "" {
		dto.Metadata = json.RawMessage(raw)
	}
	return dto
}

// FromQueueItems converts a slice of queue records into API DTOs.
func FromQueueItems(items []*queue.Item) []QueueItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]QueueItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromQueueItem(item))
	}
	return out
}

// FromStatusSummary converts a workflow status summary to API payload.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	healthNames := make([]string, 0, len(summary.StageHealth))
	for name := range summary.StageHealth {
		healthNames = append(healthNames, name)
	}
	slices.Sort(healthNames)

	health := make([]StageHealth, 0, len(healthNames))
	for _, name := range healthNames {
		h := summary.StageHealth[name]
		health = append(health, StageHealth{Name: name, Ready: h.Ready, Detail: h.Detail})
	}

	stats := make(map[string]int, len(summary.QueueStats))
	for status, count := range summary.QueueStats {
		stats[string(status)] = count
	}

	status := WorkflowStatus{
		Running:     summary.Running,
		QueueStats:  stats,
		LastError:   summary.LastError,
		StageHealth: health,
	}
	if summary.LastItem != nil {
		item := FromQueueItem(summary.LastItem)
		status.LastItem = &item
	}
	return status
}

// FromHealthSummary converts queue counts into the API payload.
func FromHealthSummary(health queue.HealthSummary) QueueHealth {
	return QueueHealth{
		Total:      health.Total,
		Pending:    health.Pending,
		Processing: health.Processing,
		Review:     health.Review,
		Failed:     health.Failed,
		Completed:  health.Completed,
	}
}

// FromDatabaseHealth converts database diagnostics into the API payload.
func FromDatabaseHealth(health queue.DatabaseHealth) DatabaseHealth {
	return DatabaseHealth{
		DBPath:           health.DBPath,
		DatabaseExists:   health.DatabaseExists,
		DatabaseReadable: health.DatabaseReadable,
		TableExists:      health.TableExists,
		MissingColumns:   slices.Clone(health.MissingColumns),
		TotalItems:       health.TotalItems,
		IntegrityCheck:   health.IntegrityCheck,
		Error:            health.Error,
	}
}
