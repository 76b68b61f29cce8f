package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "tuner/1.0 (https://github.com/llehouerou/tuner)"

// ErrNoSource is returned when the client has no catalog URL configured.
var ErrNoSource = errors.New("no catalog source configured")

// Client fetches the station catalog over HTTP. A catalog source is either a
// single combined document ({stations, countries, tags}) or a config document
// plus an index document listing per-file station lists to be concatenated.
//
// Loading happens once per session. Any missing, non-OK or structurally wrong
// resource aborts the load; there is no partial catalog.
type Client struct {
	httpClient *http.Client
	catalogURL string
	baseURL    string
}

// NewClient creates a catalog client. catalogURL selects single-document
// mode; baseURL selects config+index mode. When both are set, catalogURL
// wins.
func NewClient(catalogURL, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		catalogURL: catalogURL,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// combinedDocument is the single-file catalog layout. Older catalogs use
// "genres" where newer ones use "tags"; both are accepted.
type combinedDocument struct {
	Stations  []Station          `json:"stations"`
	Countries map[string]Country `json:"countries"`
	Tags      map[string]Tag     `json:"tags"`
	Genres    map[string]Tag     `json:"genres"`
}

// configDocument is the metadata part of a multi-file catalog.
type configDocument struct {
	Countries map[string]Country `json:"countries"`
	Tags      map[string]Tag     `json:"tags"`
	Genres    map[string]Tag     `json:"genres"`
}

// stationsDocument is one per-file station list. A bare JSON array is also
// accepted.
type stationsDocument struct {
	Stations []Station `json:"stations"`
}

// Load fetches and assembles the catalog.
func (c *Client) Load(ctx context.Context) (*Catalog, error) {
	switch {
	case c.catalogURL != "":
		return c.loadCombined(ctx)
	case c.baseURL != "":
		return c.loadIndexed(ctx)
	default:
		return nil, ErrNoSource
	}
}

func (c *Client) loadCombined(ctx context.Context) (*Catalog, error) {
	var doc combinedDocument
	if err := c.getJSON(ctx, c.catalogURL, &doc); err != nil {
		return nil, err
	}
	if doc.Stations == nil {
		return nil, fmt.Errorf("catalog %s: missing stations field", c.catalogURL)
	}
	tags := doc.Tags
	if tags == nil {
		tags = doc.Genres
	}
	return New(doc.Stations, doc.Countries, tags), nil
}

func (c *Client) loadIndexed(ctx context.Context) (*Catalog, error) {
	configURL := c.baseURL + "/config.json"
	indexURL := c.baseURL + "/index.json"

	var cfg configDocument
	if err := c.getJSON(ctx, configURL, &cfg); err != nil {
		return nil, err
	}

	var files []string
	if err := c.getJSON(ctx, indexURL, &files); err != nil {
		// An index that is not a JSON array is a structural error, not a
		// recoverable one.
		return nil, fmt.Errorf("catalog index %s: %w", indexURL, err)
	}

	var stations []Station
	for _, name := range files {
		fileURL, err := c.resolve(name)
		if err != nil {
			return nil, fmt.Errorf("catalog index entry %q: %w", name, err)
		}
		part, err := c.loadStationsFile(ctx, fileURL)
		if err != nil {
			return nil, err
		}
		stations = append(stations, part...)
	}

	tags := cfg.Tags
	if tags == nil {
		tags = cfg.Genres
	}
	return New(stations, cfg.Countries, tags), nil
}

func (c *Client) loadStationsFile(ctx context.Context, fileURL string) ([]Station, error) {
	raw, err := c.get(ctx, fileURL)
	if err != nil {
		return nil, err
	}

	// Either {stations: [...]} or a bare array.
	var doc stationsDocument
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Stations != nil {
		return doc.Stations, nil
	}
	var list []Station
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("stations file %s: %w", fileURL, err)
	}
	return list, nil
}

func (c *Client) resolve(name string) (string, error) {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name, nil
	}
	u, err := url.JoinPath(c.baseURL, name)
	if err != nil {
		return "", err
	}
	return u, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	raw, err := c.get(ctx, reqURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", reqURL, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", reqURL, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", reqURL, err)
	}
	return raw, nil
}
