// Package fmg implements the slice of the FortiManager GUI API that script
// history collection needs: the dual login, the device database query and
// the per-device task history fetch.
package fmg

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second

	jsonrpcPath     = "/jsonrpc"
	flatuiAuthPath  = "/cgi-bin/module/flatui_auth"
	flatuiProxyPath = "/cgi-bin/module/flatui_proxy"

	userLoginURL = "sys/login/user"
	userAuthURL  = "/gui/userauth"
	taskURL      = "/gui/adom/dvm/task"

	maxLoggedBody = 2048
)

// Client is a session-bound client for the FortiManager GUI API. Login must
// succeed before any data call: DeviceList rides on the JSON-RPC session
// token, ScriptHistory on the cookies the flatui login leaves in the jar. A
// Client serves one linear run and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	session    string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every HTTP request made by the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithInsecureTLS toggles certificate verification. Appliances routinely
// present self-signed certificates, so collection defaults to skipping
// verification; pass false to turn it back on.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) {
		if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
			transport.TLSClientConfig.InsecureSkipVerify = insecure
		}
	}
}

// WithLogger attaches a parent logger; the client tags its own component.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "fmg").Logger()
	}
}

// New builds a client for the given appliance. Host is an IP, hostname or
// host:port; a scheme prefix is honored as-is, everything else is assumed
// HTTPS.
func New(host string, opts ...Option) *Client {
	base := host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	// cookiejar.New never fails with nil options
	jar, _ := cookiejar.New(nil)

	client := &Client{
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		},
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Login performs both authentication legs. The JSON-RPC login yields the
// session token for device database calls; the flatui login sets the
// CURRENT_SESSION and CSRF cookies the proxy endpoint checks. Either leg
// failing fails the login.
func (c *Client) Login(ctx context.Context, user, password string) error {
	request := rpcRequest{
		ID:     1,
		Method: "exec",
		Params: []any{loginParams{
			Data: []loginData{{User: user, Passwd: password}},
			URL:  userLoginURL,
		}},
		Session: nil,
		Verbose: 1,
	}

	c.logger.Debug().Str("user", user).Msg("logging in via jsonrpc")

	var response rpcResponse
	if err := c.postJSON(ctx, jsonrpcPath, request, &response); err != nil {
		return err
	}
	if len(response.Result) == 0 {
		return fmt.Errorf("%w: login response carries no result", ErrParse)
	}
	if status := response.Result[0].Status; status.Code != 0 {
		return fmt.Errorf("%w: %s (code %d)", ErrAuth, status.Message, status.Code)
	}
	if response.Session == "" {
		return fmt.Errorf("%w: login response carries no session token", ErrParse)
	}
	c.session = response.Session

	return c.loginFlatUI(ctx, user, password)
}

// loginFlatUI is the second authentication leg. Only the HTTP status is
// inspected; the cookies land in the jar as a side effect.
func (c *Client) loginFlatUI(ctx context.Context, user, password string) error {
	request := flatuiRequest{
		URL:    userAuthURL,
		Method: "login",
		Params: flatuiLoginParams{Username: user, SecretKey: password, LoginType: 0},
	}

	c.logger.Debug().Str("user", user).Msg("logging in via flatui")

	status, _, err := c.post(ctx, flatuiAuthPath, request)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: flatui login returned HTTP %d", ErrAuth, status)
	}
	return nil
}

// DeviceList returns the managed devices of one platform in an ADOM. Only
// the serial number and hostname fields are requested.
func (c *Client) DeviceList(ctx context.Context, adom, platform string) ([]Device, error) {
	request := rpcRequest{
		ID:     1,
		Method: "get",
		Params: []any{deviceParams{
			LoadSub: 0,
			URL:     fmt.Sprintf("/dvmdb/adom/%s/device", adom),
			Fields:  []string{"sn", "hostname"},
			Filter:  [][]string{{"platform_str", "==", platform}},
		}},
		Session: c.session,
	}

	c.logger.Debug().Str("adom", adom).Str("platform", platform).Msg("fetching device list")

	var response rpcResponse
	if err := c.postJSON(ctx, jsonrpcPath, request, &response); err != nil {
		return nil, err
	}
	if len(response.Result) == 0 {
		return nil, fmt.Errorf("%w: device list response carries no result", ErrParse)
	}
	result := response.Result[0]
	if result.Status.Code != 0 {
		return nil, fmt.Errorf("device list failed: %s (code %d)", result.Status.Message, result.Status.Code)
	}

	var devices []Device
	if len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, &devices); err != nil {
			return nil, fmt.Errorf("%w: device list data: %v", ErrParse, err)
		}
	}
	return devices, nil
}

// ScriptHistory fetches the script execution history of one device through
// the flatui proxy. A device with no recorded history comes back as an
// empty slice, not an error.
func (c *Client) ScriptHistory(ctx context.Context, adom, deviceName string) ([]HistoryEntry, error) {
	request := flatuiRequest{
		URL:    taskURL,
		Method: "get",
		Params: taskParams{DeviceName: deviceName, ADOMName: adom},
	}

	c.logger.Debug().Str("device", deviceName).Str("adom", adom).Msg("fetching script history")

	var response flatuiResponse
	if err := c.postJSON(ctx, flatuiProxyPath, request, &response); err != nil {
		return nil, err
	}
	if len(response.Result) == 0 || len(response.Result[0].Data) == 0 {
		return nil, nil
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(response.Result[0].Data, &entries); err != nil {
		return nil, fmt.Errorf("%w: task history data: %v", ErrParse, err)
	}
	return entries, nil
}

// postJSON posts the payload and decodes the response body into dest.
func (c *Client) postJSON(ctx context.Context, path string, payload, dest any) error {
	status, body, err := c.post(ctx, path, payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d from %s", ErrParse, status, path)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response from %s: %v", ErrNetwork, path, err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", response.StatusCode).
		Str("body", truncate(responseBody, maxLoggedBody)).
		Msg("api response")

	return response.StatusCode, responseBody, nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "...(truncated)"
}
