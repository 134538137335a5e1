package weatherapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/pkg/logger"
	"github.com/doeshing/wxq/internal/ports"
	"github.com/doeshing/wxq/internal/version"
)

// Client talks to the weather lookup endpoint.
type Client struct {
	endpoint   domain.EndpointSettings
	origin     *url.URL
	httpClient *http.Client
	logger     ports.Logger
	userAgent  string
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the transport. Its timeout, if any, is the only one
// applied to lookups.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger routes request diagnostics to log.
func WithLogger(log ports.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient builds a client for endpoint. The origin must be absolute since
// relative request targets are resolved against it.
func NewClient(endpoint domain.EndpointSettings, opts ...ClientOption) (*Client, error) {
	rawOrigin := strings.TrimSpace(endpoint.Origin)
	if rawOrigin == "" {
		rawOrigin = domain.DefaultOrigin
	}
	origin, err := url.Parse(rawOrigin)
	if err != nil {
		return nil, errors.Wrapf(err, "parse endpoint origin %q", rawOrigin)
	}
	if !origin.IsAbs() || origin.Host == "" {
		return nil, errors.Errorf("endpoint origin %q must be an absolute URL", rawOrigin)
	}

	if !endpoint.IsRelative() {
		base, err := url.Parse(strings.TrimSpace(endpoint.BaseURL))
		if err != nil {
			return nil, errors.Wrapf(err, "parse endpoint base_url %q", endpoint.BaseURL)
		}
		if base.Scheme != "" && base.Host == "" {
			return nil, errors.Errorf("endpoint base_url %q has no host", endpoint.BaseURL)
		}
	}

	c := &Client{
		endpoint:   endpoint,
		origin:     origin,
		httpClient: &http.Client{Timeout: endpoint.Timeout()},
		logger:     logger.Nop(),
		userAgent:  "wxq/" + version.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BuildTarget joins base and path and appends the escaped city parameter.
// base may be empty, in which case the target is relative.
func BuildTarget(base, path, city string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/") + path + "?" + domain.CityQueryParam + "=" + escapeComponent(city)
}

// TargetFor returns the absolute URL a lookup for city would request.
func (c *Client) TargetFor(city string) (string, error) {
	u, err := c.resolve(BuildTarget(c.endpoint.BaseURL, c.endpoint.LookupPath(), city))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Lookup fetches current conditions for city. The body is captured as text
// before it is decoded.
func (c *Client) Lookup(ctx context.Context, city string) (domain.WeatherResult, error) {
	target, err := c.TargetFor(city)
	if err != nil {
		return domain.WeatherResult{}, domain.NewTransportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.WeatherResult{}, domain.NewTransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("requesting weather", map[string]interface{}{"url": target})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherResult{}, domain.NewTransportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("weather response", map[string]interface{}{"status": resp.StatusCode})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.WeatherResult{}, domain.NewHTTPError(resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WeatherResult{}, domain.NewTransportError(errors.Wrap(err, "read response body"))
	}
	text := string(raw)

	c.logger.Debug("raw weather response", map[string]interface{}{"body": text})

	result, err := DecodeWeather(text)
	if err != nil {
		return domain.WeatherResult{}, domain.NewDecodeError(err)
	}
	return result, nil
}

// Ping requests the health path and fails on any non-2xx status.
func (c *Client) Ping(ctx context.Context) error {
	base := strings.TrimRight(strings.TrimSpace(c.endpoint.BaseURL), "/")
	u, err := c.resolve(base + c.endpoint.HealthCheckPath())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("health check %s: %s", u.String(), resp.Status)
	}
	return nil
}

func (c *Client) resolve(target string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.Wrapf(err, "parse request target %q", target)
	}
	if u.IsAbs() {
		return u, nil
	}
	return c.origin.ResolveReference(u), nil
}

// escapeComponent escapes s the way browsers escape a URI component: spaces
// become %20 rather than '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var (
	_ ports.WeatherClient = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)
