// Package client provides the anxietyd API client used by anxietyctl.
//
// AnxietyAPIClient wraps a Resty client configured with the request
// timeout, JSON headers, a User-Agent carrying the CLI version, and retries
// on connection errors only. HTTP errors are never retried: a 429 from a
// full device queue or a 400 from a malformed tunable value is reported to
// the operator as is.
//
// Non-2xx responses become *APIError, carrying the status and the
// daemon's error and details fields.
package client

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/utils"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/netutil"
)

// APIError is a non-2xx response from anxietyd.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// AnxietyAPIClient talks to one anxietyd API server.
type AnxietyAPIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAnxietyAPIClient creates a client for apiAddr ("host:port") with a
// per-request timeout in seconds.
func NewAnxietyAPIClient(apiAddr string, timeout int) *AnxietyAPIClient {
	client := resty.New()

	baseURL := fmt.Sprintf("http://%s/api/v1", apiAddr)

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(utils.RestyLogger{})

	client.
		SetTimeout(time.Duration(timeout)*time.Second).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("anxietyctl/%s", config.Version))

	client.
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only retry on connection errors, not HTTP errors
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &AnxietyAPIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// CreateAPIClient creates a client from the global CLI configuration
func CreateAPIClient() *AnxietyAPIClient {
	return NewAnxietyAPIClient(config.Global.APIAddr, config.Global.Timeout)
}

// do sends req and maps transport failures and non-2xx responses to errors
func (api *AnxietyAPIClient) do(req *resty.Request, method, path string) error {
	var apiErr ErrorResponse
	resp, err := req.SetError(&apiErr).Execute(method, path)
	if err != nil {
		if netutil.IsConnectionRefusedError(err) {
			return fmt.Errorf("anxietyd is not running at %s (connection refused)", api.baseURL)
		}
		return fmt.Errorf("failed to connect to API server at %s: %w", api.baseURL, err)
	}

	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg, Details: apiErr.Details}
	}
	return nil
}

// GetHealth fetches the daemon health
func (api *AnxietyAPIClient) GetHealth() (*Health, error) {
	var health Health
	if err := api.do(api.client.R().SetResult(&health), http.MethodGet, "/health"); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetHost fetches the daemon host's resource snapshot
func (api *AnxietyAPIClient) GetHost() (*HostResources, error) {
	var host HostResources
	if err := api.do(api.client.R().SetResult(&host), http.MethodGet, "/host"); err != nil {
		return nil, err
	}
	return &host, nil
}

// ListTunables fetches every scheduler tunable
func (api *AnxietyAPIClient) ListTunables() (*TunableList, error) {
	var list TunableList
	if err := api.do(api.client.R().SetResult(&list), http.MethodGet, "/iosched/tunables"); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetTunable fetches one tunable
func (api *AnxietyAPIClient) GetTunable(name string) (*Tunable, error) {
	var tunable Tunable
	req := api.client.R().SetPathParam("name", name).SetResult(&tunable)
	if err := api.do(req, http.MethodGet, "/iosched/tunables/{name}"); err != nil {
		return nil, err
	}
	return &tunable, nil
}

// SetTunable stores value into a tunable and returns the value now in effect,
// which differs from the input when the daemon clamps it
func (api *AnxietyAPIClient) SetTunable(name, value string) (*Tunable, error) {
	var tunable Tunable
	req := api.client.R().
		SetPathParam("name", name).
		SetBody(map[string]string{"value": value}).
		SetResult(&tunable)
	if err := api.do(req, http.MethodPut, "/iosched/tunables/{name}"); err != nil {
		return nil, err
	}
	return &tunable, nil
}

// GetStats fetches scheduler and device queue counters
func (api *AnxietyAPIClient) GetStats() (*DeviceStats, error) {
	var stats DeviceStats
	if err := api.do(api.client.R().SetResult(&stats), http.MethodGet, "/iosched/stats"); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Drain forces dispatch of everything queued and waits for completion
func (api *AnxietyAPIClient) Drain() (*DrainResult, error) {
	var result DrainResult
	if err := api.do(api.client.R().SetResult(&result), http.MethodPost, "/iosched/drain"); err != nil {
		return nil, err
	}
	return &result, nil
}

// Write submits a write of data at offset and waits for completion
func (api *AnxietyAPIClient) Write(offset uint64, data []byte, sync bool) (*IOResult, error) {
	return api.submit(IORequest{
		Op:     "write",
		Sync:   sync,
		Offset: offset,
		Length: uint64(len(data)),
		Data:   base64.StdEncoding.EncodeToString(data),
	})
}

// Read submits a read and returns the result with the decoded data
func (api *AnxietyAPIClient) Read(offset, length uint64, sync bool) (*IOResult, []byte, error) {
	result, err := api.submit(IORequest{Op: "read", Sync: sync, Offset: offset, Length: length})
	if err != nil {
		return nil, nil, err
	}

	data, err := base64.StdEncoding.DecodeString(result.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid read data in response: %w", err)
	}
	return result, data, nil
}

// Submit sends an arbitrary request, such as flush or discard
func (api *AnxietyAPIClient) Submit(req IORequest) (*IOResult, error) {
	return api.submit(req)
}

func (api *AnxietyAPIClient) submit(body IORequest) (*IOResult, error) {
	var result IOResult
	req := api.client.R().SetBody(body).SetResult(&result)
	if err := api.do(req, http.MethodPost, "/io"); err != nil {
		return nil, err
	}
	return &result, nil
}
