package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"nofesh/internal/adapters/observability"
	"nofesh/internal/domain"
)

// Client talks to the external place-lookup provider. One attempt per call
// under a fixed timeout, no retries: callers degrade a failure to an empty
// suggestion list, so retrying here would only add latency.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int, timeout time.Duration) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type placeRecord struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	PlaceID     string  `json:"place_id"`
}

func (c *Client) Autocomplete(ctx context.Context, req domain.PlaceRequest) ([]domain.Place, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.base + "/v1/geocode/autocomplete")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("text", req.Text)
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	q.Set("type", "city")
	q.Set("format", "json")
	if req.Lang != "" {
		q.Set("lang", req.Lang)
	}
	if req.Country != "" {
		q.Set("filter", "countrycode:"+strings.ToLower(req.Country))
	}
	if req.Bias != nil {
		q.Set("bias", fmt.Sprintf("proximity:%g,%g", req.Bias.Lon, req.Bias.Lat))
	}
	q.Set("apiKey", c.key)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		observability.ObserveExternal("places", "autocomplete", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("places", "autocomplete", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("places: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var payload struct {
		Results []placeRecord `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("places: decode: %w", err)
	}

	out := make([]domain.Place, 0, len(payload.Results))
	for _, r := range payload.Results {
		name := r.Name
		if name == "" {
			name = r.City
		}
		out = append(out, domain.Place{
			Lat:         r.Lat,
			Lon:         r.Lon,
			Name:        name,
			Admin1:      r.State,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			ExternalID:  r.PlaceID,
		})
	}
	return out, nil
}
