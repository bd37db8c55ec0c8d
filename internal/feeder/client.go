package feeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Mode selects which base URL a mode-dependent call goes to.
type Mode int

const (
	// ModeDevice targets the feeder on the home network.
	ModeDevice Mode = iota
	// ModeAccessPoint targets the feeder's own setup access point.
	ModeAccessPoint
)

const (
	DefaultAPBaseURL     = "http://192.168.4.1"
	DefaultDeviceBaseURL = "http://alimentador.local"
	DefaultTimeout       = 10 * time.Second
	defaultUserAgent     = "koi/0.1"
)

// Options configure a Client. Zero values fall back to the defaults above.
type Options struct {
	APBaseURL     string
	DeviceBaseURL string
	Timeout       time.Duration
	UserAgent     string
	HTTPClient    *http.Client
}

// Client talks to the feeder's HTTP API. It holds no state beyond its
// configuration and never retries.
type Client struct {
	apURL     *url.URL
	deviceURL *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	apURL, err := parseBaseURL(opts.APBaseURL, DefaultAPBaseURL)
	if err != nil {
		return nil, err
	}
	deviceURL, err := parseBaseURL(opts.DeviceBaseURL, DefaultDeviceBaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apURL:     apURL,
		deviceURL: deviceURL,
		http:      httpClient,
		timeout:   timeout,
		userAgent: userAgent,
	}, nil
}

// Timeout returns the per-request deadline.
func (c *Client) Timeout() time.Duration { return c.timeout }

// DeviceURL returns the normal-mode base URL.
func (c *Client) DeviceURL() string { return c.deviceURL.String() }

// APURL returns the access-point base URL.
func (c *Client) APURL() string { return c.apURL.String() }

// ScanWiFi lists networks visible to the feeder. AP mode only.
func (c *Client) ScanWiFi(ctx context.Context) ([]WiFiNetwork, error) {
	var payload scanResponse
	if err := c.do(ctx, OpScanWiFi, c.apURL, http.MethodGet, &url.URL{Path: "/scan-wifi"}, nil, &payload); err != nil {
		return nil, err
	}
	networks := make([]WiFiNetwork, 0, len(payload.Networks))
	for _, n := range payload.Networks {
		n.Secure = n.Auth == "secure"
		networks = append(networks, n)
	}
	return networks, nil
}

// ConfigureWiFi hands home network credentials to the feeder. AP mode only.
// A reply that decodes but carries no recognized success signal yields a
// result with Success false and a nil error.
func (c *Client) ConfigureWiFi(ctx context.Context, ssid, password string) (WiFiConfigResult, error) {
	body := struct {
		SSID     string `json:"ssid"`
		Password string `json:"password"`
	}{SSID: ssid, Password: password}
	var payload wifiAckPayload
	if err := c.do(ctx, OpConfigureWiFi, c.apURL, http.MethodPost, &url.URL{Path: "/config-wifi"}, body, &payload); err != nil {
		return WiFiConfigResult{}, err
	}
	return newWiFiConfigResult(payload), nil
}

// NetworkInfo reads /ip from the base selected by mode.
func (c *Client) NetworkInfo(ctx context.Context, mode Mode) (NetworkInfo, error) {
	var payload NetworkInfo
	if err := c.do(ctx, OpNetworkInfo, c.base(mode), http.MethodGet, &url.URL{Path: "/ip"}, nil, &payload); err != nil {
		return NetworkInfo{}, err
	}
	return payload, nil
}

// Ping reports whether the feeder answers on the base selected by mode.
func (c *Client) Ping(ctx context.Context, mode Mode) bool {
	_, err := c.NetworkInfo(ctx, mode)
	return err == nil
}

// ProbeAccessPoint checks once that the access point belongs to a feeder. The
// reply must carry one of the identity markers the firmware variants expose.
func (c *Client) ProbeAccessPoint(ctx context.Context) error {
	var payload map[string]json.RawMessage
	if err := c.do(ctx, OpProbe, c.apURL, http.MethodGet, &url.URL{Path: "/status"}, nil, &payload); err != nil {
		return err
	}
	for _, marker := range []string{"dispositivo", "deviceId", "apMode"} {
		if _, ok := payload[marker]; ok {
			return nil
		}
	}
	return c.fail(OpProbe, fmt.Errorf("reply carries no feeder identity"))
}

// Status fetches the full device snapshot.
func (c *Client) Status(ctx context.Context) (*DeviceStatus, error) {
	var payload DeviceStatus
	if err := c.do(ctx, OpStatus, c.deviceURL, http.MethodGet, &url.URL{Path: "/status"}, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Feed triggers a manual feeding.
func (c *Client) Feed(ctx context.Context, refill RefillType) (FeedResult, error) {
	if refill == "" {
		refill = RefillLeft
	}
	if !refill.Valid() {
		return FeedResult{}, c.fail(OpFeed, fmt.Errorf("unknown refill %q", refill))
	}
	body := struct {
		Refill RefillType `json:"refill"`
	}{Refill: refill}
	var payload FeedResult
	if err := c.do(ctx, OpFeed, c.deviceURL, http.MethodPost, &url.URL{Path: "/alimentar"}, body, &payload); err != nil {
		return FeedResult{}, err
	}
	return payload, nil
}

// UpdateConfig sends a partial configuration update.
func (c *Client) UpdateConfig(ctx context.Context, update ConfigUpdate) (Ack, error) {
	var payload Ack
	if err := c.do(ctx, OpUpdateConfig, c.deviceURL, http.MethodPut, &url.URL{Path: "/configuracoes"}, update, &payload); err != nil {
		return Ack{}, err
	}
	return payload, nil
}

// CreateSchedule adds a schedule and returns the device-assigned id.
func (c *Client) CreateSchedule(ctx context.Context, input ScheduleInput) (CreateResult, error) {
	var payload CreateResult
	if err := c.do(ctx, OpCreateSchedule, c.deviceURL, http.MethodPost, &url.URL{Path: "/agendamento"}, input, &payload); err != nil {
		return CreateResult{}, err
	}
	return payload, nil
}

// Schedules lists schedules through /status; the device has no list endpoint.
func (c *Client) Schedules(ctx context.Context) ([]Schedule, error) {
	var payload DeviceStatus
	if err := c.do(ctx, OpListSchedules, c.deviceURL, http.MethodGet, &url.URL{Path: "/status"}, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Schedules == nil {
		return []Schedule{}, nil
	}
	return payload.Schedules, nil
}

// Schedule fetches a single schedule.
func (c *Client) Schedule(ctx context.Context, id int) (Schedule, error) {
	var payload Schedule
	if err := c.do(ctx, OpGetSchedule, c.deviceURL, http.MethodGet, scheduleURL(id), nil, &payload); err != nil {
		return Schedule{}, err
	}
	return payload, nil
}

// UpdateSchedule sends a partial schedule update.
func (c *Client) UpdateSchedule(ctx context.Context, id int, patch SchedulePatch) (Ack, error) {
	var payload Ack
	if err := c.do(ctx, OpUpdateSchedule, c.deviceURL, http.MethodPut, scheduleURL(id), patch, &payload); err != nil {
		return Ack{}, err
	}
	return payload, nil
}

// DeleteSchedule removes a schedule and returns the remaining count.
func (c *Client) DeleteSchedule(ctx context.Context, id int) (DeleteResult, error) {
	var payload DeleteResult
	if err := c.do(ctx, OpDeleteSchedule, c.deviceURL, http.MethodDelete, scheduleURL(id), nil, &payload); err != nil {
		return DeleteResult{}, err
	}
	return payload, nil
}

// History fetches the feeding log.
func (c *Client) History(ctx context.Context) (HistoryResponse, error) {
	var payload HistoryResponse
	if err := c.do(ctx, OpHistory, c.deviceURL, http.MethodGet, &url.URL{Path: "/historico"}, nil, &payload); err != nil {
		return HistoryResponse{}, err
	}
	if payload.Entries == nil {
		payload.Entries = []HistoryEntry{}
	}
	return payload, nil
}

// Statistics fetches aggregate feeding counters.
func (c *Client) Statistics(ctx context.Context) (Statistics, error) {
	var payload Statistics
	if err := c.do(ctx, OpStatistics, c.deviceURL, http.MethodGet, &url.URL{Path: "/estatisticas"}, nil, &payload); err != nil {
		return Statistics{}, err
	}
	return payload, nil
}

func (c *Client) base(mode Mode) *url.URL {
	if mode == ModeAccessPoint {
		return c.apURL
	}
	return c.deviceURL
}

func scheduleURL(id int) *url.URL {
	values := url.Values{}
	values.Set("id", strconv.Itoa(id))
	return &url.URL{Path: "/agendamento", RawQuery: values.Encode()}
}

func (c *Client) do(ctx context.Context, op Op, base *url.URL, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return &OpError{Op: op, Message: op.Message(), Err: fmt.Errorf("client is nil")}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return c.fail(op, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := base.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return c.fail(op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(op, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.fail(op, fmt.Errorf("%s %s returned status %d", method, rel.String(), resp.StatusCode))
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return c.fail(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) fail(op Op, cause error) error {
	log.Printf("feeder %s failed: %v", op, cause)
	return &OpError{Op: op, Message: op.Message(), Err: cause}
}

func parseBaseURL(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
