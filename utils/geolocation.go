package utils

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/oschwald/geoip2-golang"
)

// GeoResolver infers a marketplace country from a client IP. Requests that
// omit the country field get the caller's own country as the VAT default
// instead of a hardcoded one.
type GeoResolver struct {
	db         *geoip2.Reader
	httpClient *http.Client
	cache      sync.Map // map[string]string ip -> country
}

// NewGeoResolver always returns a usable resolver: when the database is
// missing it runs in API-only mode and the error is advisory.
func NewGeoResolver(dbPath string) (*GeoResolver, error) {
	var db *geoip2.Reader
	var openErr error

	if dbPath != "" {
		db, openErr = geoip2.Open(dbPath)
		if openErr != nil {
			db = nil
		}
	}

	return &GeoResolver{
		db: db,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, openErr
}

func (g *GeoResolver) Close() {
	if g.db != nil {
		g.db.Close()
	}
}

// CountryForIP returns the English country name for an IP, or "" when it
// cannot be resolved. Safe on a nil receiver.
func (g *GeoResolver) CountryForIP(ipStr string) string {
	if g == nil {
		return ""
	}

	if val, ok := g.cache.Load(ipStr); ok {
		return val.(string)
	}

	country := ""

	if g.db != nil {
		if ip := net.ParseIP(ipStr); ip != nil {
			if record, err := g.db.Country(ip); err == nil {
				country = record.Country.Names["en"]
			}
		}
	}

	if country == "" {
		if c, err := g.fetchFromAPI(ipStr); err == nil {
			country = c
		}
	}

	g.cache.Store(ipStr, country)
	return country
}

type ipApiResponse struct {
	Country string `json:"country"`
	Status  string `json:"status"`
}

func (g *GeoResolver) fetchFromAPI(ip string) (string, error) {
	url := fmt.Sprintf("http://ip-api.com/json/%s", ip)
	resp, err := g.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error: %d", resp.StatusCode)
	}

	var apiResp ipApiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", err
	}

	if apiResp.Status == "fail" {
		return "", fmt.Errorf("api returned fail status")
	}

	return apiResp.Country, nil
}
