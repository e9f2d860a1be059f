// Package queueaccess gives the CLI one queue surface whether a daemon is
// running or not: operations go over IPC when the socket answers and fall
// back to opening the database directly otherwise.
package queueaccess

import (
	"context"

	"carousel/internal/api"
	"carousel/internal/ipc"
	"carousel/internal/queue"
)

// Access provides queue operations regardless of IPC or direct store backing.
type Access interface {
	Stats(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, statuses []string) ([]api.QueueItem, error)
	Describe(ctx context.Context, id int64) (*api.QueueItem, error)
	ClearAll(ctx context.Context) (int64, error)
	ClearCompleted(ctx context.Context) (int64, error)
	ClearFailed(ctx context.Context) (int64, error)
	Remove(ctx context.Context, ids []int64) (int64, error)
	ResetStuck(ctx context.Context) (int64, error)
	RetryAll(ctx context.Context) (int64, error)
	Retry(ctx context.Context, ids []int64) (int64, error)
	Health(ctx context.Context) (api.QueueHealth, error)
	DatabaseHealth(ctx context.Context) (api.DatabaseHealth, error)
}

// NewIPCAccess returns an Access backed by daemon IPC.
func NewIPCAccess(client *ipc.Client) Access {
	return &ipcAccess{client: client}
}

// NewStoreAccess returns an Access backed by direct database access.
func NewStoreAccess(store *queue.Store) Access {
	return &storeAccess{store: store}
}

type ipcAccess struct {
	client *ipc.Client
}

func (a *ipcAccess) Stats(context.Context) (map[string]int, error) {
	status, err := a.client.Status()
	if err != nil {
		return nil, err
	}
	return status.Workflow.QueueStats, nil
}

func (a *ipcAccess) List(_ context.Context, statuses []string) ([]api.QueueItem, error) {
	return a.client.QueueList(statuses)
}

func (a *ipcAccess) Describe(_ context.Context, id int64) (*api.QueueItem, error) {
	return a.client.QueueDescribe(id)
}

func (a *ipcAccess) ClearAll(context.Context) (int64, error) {
	return a.client.QueueClear()
}

func (a *ipcAccess) ClearCompleted(context.Context) (int64, error) {
	return a.client.QueueClearCompleted()
}

func (a *ipcAccess) ClearFailed(context.Context) (int64, error) {
	return a.client.QueueClearFailed()
}

func (a *ipcAccess) Remove(_ context.Context, ids []int64) (int64, error) {
	return a.client.QueueRemove(ids)
}

func (a *ipcAccess) ResetStuck(context.Context) (int64, error) {
	return a.client.QueueReset()
}

func (a *ipcAccess) RetryAll(context.Context) (int64, error) {
	return a.client.QueueRetry(nil)
}

func (a *ipcAccess) Retry(_ context.Context, ids []int64) (int64, error) {
	return a.client.QueueRetry(ids)
}

func (a *ipcAccess) Health(context.Context) (api.QueueHealth, error) {
	resp, err := a.client.QueueHealth()
	if err != nil {
		return api.QueueHealth{}, err
	}
	return api.QueueHealth{
		Total:      resp.Total,
		Pending:    resp.Pending,
		Processing: resp.Processing,
		Review:     resp.Review,
		Failed:     resp.Failed,
		Completed:  resp.Completed,
	}, nil
}

func (a *ipcAccess) DatabaseHealth(context.Context) (api.DatabaseHealth, error) {
	resp, err := a.client.DatabaseHealth()
	if err != nil {
		return api.DatabaseHealth{}, err
	}
	return api.DatabaseHealth{
		DBPath:           resp.DBPath,
		DatabaseExists:   resp.DatabaseExists,
		DatabaseReadable: resp.DatabaseReadable,
		TableExists:      resp.TableExists,
		MissingColumns:   resp.MissingColumns,
		IntegrityCheck:   resp.IntegrityCheck,
		TotalItems:       resp.TotalItems,
		Error:            resp.Error,
	}, nil
}

type storeAccess struct {
	store *queue.Store
}

func (a *storeAccess) Stats(ctx context.Context) (map[string]int, error) {
	stats, err := a.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out, nil
}

func (a *storeAccess) List(ctx context.Context, statuses []string) ([]api.QueueItem, error) {
	var filters []queue.Status
	for _, raw := range statuses {
		if parsed, ok := queue.ParseStatus(raw); ok {
			filters = append(filters, parsed)
		}
	}
	items, err := a.store.List(ctx, filters...)
	if err != nil {
		return nil, err
	}
	return api.FromQueueItems(items), nil
}

func (a *storeAccess) Describe(ctx context.Context, id int64) (*api.QueueItem, error) {
	item, err := a.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	converted := api.FromQueueItem(item)
	return &converted, nil
}

func (a *storeAccess) ClearAll(ctx context.Context) (int64, error) {
	return a.store.Clear(ctx)
}

func (a *storeAccess) ClearCompleted(ctx context.Context) (int64, error) {
	return a.store.ClearCompleted(ctx)
}

func (a *storeAccess) ClearFailed(ctx context.Context) (int64, error) {
	return a.store.ClearFailed(ctx)
}

func (a *storeAccess) Remove(ctx context.Context, ids []int64) (int64, error) {
	return a.store.Remove(ctx, ids...)
}

func (a *storeAccess) ResetStuck(ctx context.Context) (int64, error) {
	return a.store.ResetStuckProcessing(ctx)
}

func (a *storeAccess) RetryAll(ctx context.Context) (int64, error) {
	return a.store.RetryFailed(ctx)
}

func (a *storeAccess) Retry(ctx context.Context, ids []int64) (int64, error) {
	return a.store.RetryFailed(ctx, ids...)
}

func (a *storeAccess) Health(ctx context.Context) (api.QueueHealth, error) {
	health, err := a.store.Health(ctx)
	if err != nil {
		return api.QueueHealth{}, err
	}
	return api.FromHealthSummary(health), nil
}

func (a *storeAccess) DatabaseHealth(ctx context.Context) (api.DatabaseHealth, error) {
	health, err := a.store.CheckHealth(ctx)
	if err != nil {
		return api.DatabaseHealth{}, err
	}
	return api.FromDatabaseHealth(health), nil
}
