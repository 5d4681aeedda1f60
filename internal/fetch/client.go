package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrReadBody marks a response whose status arrived but whose body could not
// be read.
var ErrReadBody = errors.New("read response body")

// Response is the part of an HTTP reply the dashboard cares about.
type Response struct {
	Status     int
	StatusText string
	Body       string
}

func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Client struct {
	http *http.Client
}

// New returns a client whose requests give up after timeout. Zero means no
// limit.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Call performs a GET on endpoint. Transport failures are returned as
// errors; any status code, including 4xx/5xx, is a successful call.
func (c *Client) Call(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	out := Response{Status: resp.StatusCode, StatusText: statusText(resp)}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrReadBody, err)
	}
	out.Body = string(body)
	return out, nil
}

func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(resp.Status); text != "" {
		return text
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
