package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dreamware/hdeq"
)

// Client talks to an hdeqd daemon.
type Client struct {
	base string
}

// NewClient returns a client for the daemon at base, e.g. "http://127.0.0.1:8090".
func NewClient(base string) *Client {
	return &Client{base: strings.TrimSuffix(base, "/")}
}

func (c *Client) PushLeft(ctx context.Context, v any) error  { return c.push(ctx, Left, v) }
func (c *Client) PushRight(ctx context.Context, v any) error { return c.push(ctx, Right, v) }

// PopLeft returns hdeq.ErrEmpty when the daemon's pop found its bucket empty.
func (c *Client) PopLeft(ctx context.Context) (json.RawMessage, error) { return c.pop(ctx, Left) }

// PopRight returns hdeq.ErrEmpty when the daemon's pop found its bucket empty.
func (c *Client) PopRight(ctx context.Context) (json.RawMessage, error) { return c.pop(ctx, Right) }

// Stats fetches the daemon's deque statistics.
func (c *Client) Stats(ctx context.Context) (hdeq.Stats, error) {
	var resp StatsResponse
	if err := GetJSON(ctx, c.base+"/stats", &resp); err != nil {
		return hdeq.Stats{}, err
	}
	return resp.Stats, nil
}

func (c *Client) push(ctx context.Context, end End, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	return PostJSON(ctx, c.base+"/"+string(end), PushRequest{Value: raw}, nil)
}

func (c *Client) pop(ctx context.Context, end End) (json.RawMessage, error) {
	var resp PopResponse
	err := DoJSON(ctx, http.MethodDelete, c.base+"/"+string(end), nil, &resp)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, hdeq.ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}
