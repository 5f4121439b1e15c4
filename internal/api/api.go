package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cleverdata/indexnow/internal/config"
	"github.com/go-resty/resty/v2"
)

// Timeout bounds the whole submission request.
const Timeout = 15 * time.Second

// Payload is the IndexNow submission body. Field order is part of the wire
// format.
type Payload struct {
	Host        string   `json:"host"`
	Key         string   `json:"key"`
	KeyLocation string   `json:"keyLocation"`
	URLList     []string `json:"urlList"`
}

func NewPayload(cfg config.Config, urls []string) Payload {
	list := make([]string, len(urls))
	copy(list, urls)
	return Payload{
		Host:        cfg.Host,
		Key:         cfg.Key,
		KeyLocation: cfg.KeyLocation,
		URLList:     list,
	}
}

// Encode serializes p without escaping HTML characters. With indent set the
// output is meant for humans, otherwise it is the compact request body.
func (p Payload) Encode(indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Result describes an accepted submission.
type Result struct {
	StatusCode int
	Body       string
}

// HTTPError is returned when the endpoint answered with an error status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if body == "" {
		body = "no response body"
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, body)
}

// Client posts payloads to a single IndexNow endpoint. It never retries.
type Client struct {
	endpoint string
	rc       *resty.Client
}

func NewClient(endpoint string) *Client {
	rc := resty.New().
		SetTimeout(Timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{endpoint: endpoint, rc: rc}
}

// Submit sends p in one POST request. A response with status >= 400 yields
// an *HTTPError; a request that got no response yields the transport error.
func (c *Client) Submit(ctx context.Context, p Payload) (Result, error) {
	body, err := p.Encode(false)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("post %s: %w", c.endpoint, err)
	}

	text := strings.TrimSpace(resp.String())
	if resp.StatusCode() >= http.StatusBadRequest {
		return Result{}, &HTTPError{StatusCode: resp.StatusCode(), Body: text}
	}
	return Result{StatusCode: resp.StatusCode(), Body: text}, nil
}
