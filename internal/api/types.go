package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dreamware/hdeq"
)

// End names one end of the deque in URL paths.
type End string

const (
	Left  End = "left"
	Right End = "right"
)

type PushRequest struct {
	Value json.RawMessage `json:"value"`
}

type PopResponse struct {
	Value json.RawMessage `json:"value"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatsResponse struct {
	hdeq.Stats
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %s %s: %d", e.Method, e.URL, e.Code)
}

var httpClient = &http.Client{Timeout: 5 * time.Second}

// DoJSON sends body (if non-nil) as JSON and decodes the response into out
// (if non-nil). Non-2xx responses are returned as *StatusError.
func DoJSON(ctx context.Context, method, url string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &StatusError{Method: method, URL: url, Code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func PostJSON(ctx context.Context, url string, body any, out any) error {
	return DoJSON(ctx, http.MethodPost, url, body, out)
}

func GetJSON(ctx context.Context, url string, out any) error {
	return DoJSON(ctx, http.MethodGet, url, nil, out)
}
