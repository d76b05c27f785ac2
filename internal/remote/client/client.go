package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"service-request-form/internal/logger"
)

type Mode string

const (
	// ModeConfirmed reads the HTTP status and the JSON body.
	ModeConfirmed Mode = "confirmed"
	// ModeFireAndForget reports success once the request is dispatched,
	// for endpoints whose response cannot be read.
	ModeFireAndForget Mode = "fire_and_forget"
)

const (
	DefaultTimeout = 30 * time.Second

	placeholderScriptID = "YOUR_SCRIPT_ID"
)

type (
	Settings struct {
		Endpoint string
		Mode     Mode
		Timeout  time.Duration
	}

	Client struct {
		mu       sync.RWMutex
		settings Settings

		cl *http.Client
	}
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case "", ModeConfirmed:
		return ModeConfirmed, nil
	case ModeFireAndForget:
		return ModeFireAndForget, nil
	default:
		return "", fmt.Errorf("unknown transport mode %q", s)
	}
}

func New(settings Settings) *Client {
	c := &Client{
		cl: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				IdleConnTimeout:     30 * time.Second,
				DisableKeepAlives:   false,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
	c.Configure(settings)
	return c
}

// Configure replaces the settings used by the next requests.
func (c *Client) Configure(settings Settings) {
	if settings.Mode == "" {
		settings.Mode = ModeConfirmed
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
}

func (c *Client) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

func (s Settings) configured() bool {
	return strings.TrimSpace(s.Endpoint) != "" && !strings.Contains(s.Endpoint, placeholderScriptID)
}

type response struct {
	code   int
	status string
	body   []byte
}

// invoke posts body to the endpoint. In fire-and-forget mode the response
// body is discarded unread.
func (c *Client) invoke(ctx context.Context, settings Settings, contentType string, body []byte) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "no-cache")

	logger.Debug("---> request", req.Method, settings.Endpoint, "mode", string(settings.Mode))

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if settings.Mode == ModeFireAndForget {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &response{}, nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	logger.Debug("<--- request", req.Method, settings.Endpoint, "status", resp.Status, "with body", bodyBytes)
	if err != nil {
		logger.Warning("Error while read response body", err)
	}

	return &response{
		code:   resp.StatusCode,
		status: strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))),
		body:   bodyBytes,
	}, nil
}
