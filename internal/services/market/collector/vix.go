package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

const indexRequestTimeout = 15 * time.Second

// IndexClient fetches a daily volatility index series (a ^VIX style feed)
// over HTTP. The endpoint is expected to return observations as
// {"observations":[{"date":"2006-01-02","value":"16.40"}, ...]}.
// Missing readings are published as "." and are skipped.
type IndexClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewIndexClient creates a volatility index client for the given endpoint.
func NewIndexClient(baseURL string, httpClient *http.Client) *IndexClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: indexRequestTimeout}
	}
	return &IndexClient{baseURL: baseURL, httpClient: httpClient}
}

type indexObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type indexResponse struct {
	Observations []indexObservation `json:"observations"`
}

// GetIndexSeries fetches index observations between start and end.
func (c *IndexClient) GetIndexSeries(ctx context.Context, start, end time.Time) ([]IndexPoint, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid index endpoint %q", c.baseURL)
	}
	q := u.Query()
	q.Set("observation_start", start.UTC().Format("2006-01-02"))
	q.Set("observation_end", end.UTC().Format("2006-01-02"))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build index request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch volatility index")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("volatility index endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode volatility index response")
	}
	if len(parsed.Observations) == 0 {
		return nil, errors.Wrap(domain.ErrNoData, "volatility index returned no observations")
	}

	points := make([]IndexPoint, 0, len(parsed.Observations))
	for _, obs := range parsed.Observations {
		if obs.Value == "." || obs.Value == "" {
			continue
		}
		ts, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse observation date %q", obs.Date)
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse observation value %q", obs.Value)
		}
		points = append(points, IndexPoint{Timestamp: ts, Value: value})
	}

	return points, nil
}
