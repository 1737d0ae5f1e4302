package meraki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Flarenzy/fortimigrate/internal/domain"
)

var ErrMissingAPIKey = errors.New("meraki dashboard api key is not set")

// APIError is a non-2xx Dashboard response.
type APIError struct {
	StatusCode int
	Path       string
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("meraki api %s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("meraki api %s: status %d: %s", e.Path, e.StatusCode, strings.Join(e.Errors, "; "))
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	logger     *slog.Logger
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.get(ctx, "/organizations", &orgs); err != nil {
		return nil, err
	}
	slices.SortFunc(orgs, func(a, b Organization) int { return strings.Compare(a.Name, b.Name) })
	return orgs, nil
}

func (c *Client) Networks(ctx context.Context, orgID string) ([]Network, error) {
	var networks []Network
	if err := c.get(ctx, "/organizations/"+url.PathEscape(orgID)+"/networks", &networks); err != nil {
		return nil, err
	}
	slices.SortFunc(networks, func(a, b Network) int { return strings.Compare(a.Name, b.Name) })
	return networks, nil
}

// SearchNetworks returns the organization's networks whose name contains
// query, case-insensitively. An empty query matches every network.
func (c *Client) SearchNetworks(ctx context.Context, orgID, query string) ([]Network, error) {
	networks, err := c.Networks(ctx, orgID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return networks, nil
	}
	return slices.DeleteFunc(networks, func(n Network) bool {
		return !strings.Contains(strings.ToLower(n.Name), query)
	}), nil
}

func (c *Client) Network(ctx context.Context, networkID string) (Network, error) {
	var network Network
	err := c.get(ctx, "/networks/"+url.PathEscape(networkID), &network)
	return network, err
}

func (c *Client) VLANSettings(ctx context.Context, networkID string) (VLANSettings, error) {
	var settings VLANSettings
	err := c.get(ctx, "/networks/"+url.PathEscape(networkID)+"/appliance/vlans/settings", &settings)
	return settings, err
}

func (c *Client) VLANs(ctx context.Context, networkID string) ([]VLAN, error) {
	var vlans []VLAN
	err := c.get(ctx, "/networks/"+url.PathEscape(networkID)+"/appliance/vlans", &vlans)
	return vlans, err
}

func (c *Client) SingleLAN(ctx context.Context, networkID string) (SingleLAN, error) {
	var lan SingleLAN
	err := c.get(ctx, "/networks/"+url.PathEscape(networkID)+"/appliance/singleLan", &lan)
	return lan, err
}

// Export fetches a network and its VLANs. Networks running a single LAN
// fail with domain.ErrVLANsDisabled.
func (c *Client) Export(ctx context.Context, networkID string) (NetworkExport, error) {
	network, err := c.Network(ctx, networkID)
	if err != nil {
		return NetworkExport{}, err
	}

	settings, err := c.VLANSettings(ctx, networkID)
	if err != nil {
		return NetworkExport{}, err
	}
	if !settings.VLANsEnabled {
		lan, err := c.SingleLAN(ctx, networkID)
		if err != nil {
			return NetworkExport{}, err
		}
		return NetworkExport{}, fmt.Errorf("%w: network %s runs a single lan %s", domain.ErrVLANsDisabled, network.Name, lan.Subnet)
	}

	vlans, err := c.VLANs(ctx, networkID)
	if err != nil {
		return NetworkExport{}, err
	}
	return NetworkExport{Network: network, VLANs: vlans}, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("meraki api %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			wait := retryAfter(resp.Header.Get("Retry-After"))
			drain(resp)
			c.logger.WarnContext(ctx, "meraki api rate limited", "path", path, "retry_in", wait.String(), "attempt", attempt+1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		return c.decode(resp, path, out)
	}
}

func (c *Client) decode(resp *http.Response, path string, out any) error {
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error("failed to close response body", "err", cerr.Error())
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: path}
		var body struct {
			Errors []string `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Errors = body.Errors
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrNotFound, apiErr)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode meraki api %s: %w", path, err)
	}
	return nil
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 1 {
		return time.Second
	}
	return time.Duration(seconds) * time.Second
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
