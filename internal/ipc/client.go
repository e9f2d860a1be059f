package ipc

import (
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"carousel/internal/api"
)

// dialTimeout bounds how long the client waits for the daemon socket.
const dialTimeout = 2 * time.Second

// Client talks to a running daemon over its Unix socket.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to the daemon socket at path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon socket %s: %w", path, err)
	}
	return &Client{rpc: rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) call(method string, req, resp any) error {
	return c.rpc.Call(serviceName+"."+method, req, resp)
}

// Start asks the daemon to begin processing.
func (c *Client) Start() (StartResponse, error) {
	var resp StartResponse
	err := c.call("Start", StartRequest{}, &resp)
	return resp, err
}

// Stop asks the daemon to halt processing.
func (c *Client) Stop() (StopResponse, error) {
	var resp StopResponse
	err := c.call("Stop", StopRequest{}, &resp)
	return resp, err
}

// Status fetches the daemon's current status.
func (c *Client) Status() (api.DaemonStatus, error) {
	var resp StatusResponse
	err := c.call("Status", StatusRequest{}, &resp)
	return resp.Status, err
}

// AddFile enqueues a file for organization.
func (c *Client) AddFile(path string) (AddFileResponse, error) {
	var resp AddFileResponse
	err := c.call("AddFile", AddFileRequest{Path: path}, &resp)
	return resp, err
}

// QueueList returns queue items, optionally filtered by status.
func (c *Client) QueueList(statuses []string) ([]api.QueueItem, error) {
	var resp QueueListResponse
	err := c.call("QueueList", QueueListRequest{Statuses: statuses}, &resp)
	return resp.Items, err
}

// QueueDescribe returns a single queue item by id, or nil when absent.
func (c *Client) QueueDescribe(id int64) (*api.QueueItem, error) {
	var resp QueueDescribeResponse
	if err := c.call("QueueDescribe", QueueDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, nil
	}
	return &resp.Item, nil
}

// QueueClear removes every queue item.
func (c *Client) QueueClear() (int64, error) {
	var resp QueueClearResponse
	err := c.call("QueueClear", QueueClearRequest{}, &resp)
	return resp.Removed, err
}

// QueueClearCompleted removes completed queue items.
func (c *Client) QueueClearCompleted() (int64, error) {
	var resp QueueClearCompletedResponse
	err := c.call("QueueClearCompleted", QueueClearCompletedRequest{}, &resp)
	return resp.Removed, err
}

// QueueClearFailed removes failed queue items.
func (c *Client) QueueClearFailed() (int64, error) {
	var resp QueueClearFailedResponse
	err := c.call("QueueClearFailed", QueueClearFailedRequest{}, &resp)
	return resp.Removed, err
}

// QueueRemove removes the given queue items.
func (c *Client) QueueRemove(ids []int64) (int64, error) {
	var resp QueueRemoveResponse
	err := c.call("QueueRemove", QueueRemoveRequest{IDs: ids}, &resp)
	return resp.Removed, err
}

// QueueReset rolls in-flight items back to their previous stable status.
func (c *Client) QueueReset() (int64, error) {
	var resp QueueResetResponse
	err := c.call("QueueReset", QueueResetRequest{}, &resp)
	return resp.Updated, err
}

// QueueRetry requeues failed items. An empty id list retries all of them.
func (c *Client) QueueRetry(ids []int64) (int64, error) {
	var resp QueueRetryResponse
	err := c.call("QueueRetry", QueueRetryRequest{IDs: ids}, &resp)
	return resp.Updated, err
}

// QueueHealth fetches aggregate queue counts.
func (c *Client) QueueHealth() (QueueHealthResponse, error) {
	var resp QueueHealthResponse
	err := c.call("QueueHealth", QueueHealthRequest{}, &resp)
	return resp, err
}

// DatabaseHealth fetches queue database diagnostics.
func (c *Client) DatabaseHealth() (DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	err := c.call("DatabaseHealth", DatabaseHealthRequest{}, &resp)
	return resp, err
}

// TestNotification asks the daemon to send a test notification.
func (c *Client) TestNotification() (TestNotificationResponse, error) {
	var resp TestNotificationResponse
	err := c.call("TestNotification", TestNotificationRequest{}, &resp)
	return resp, err
}
