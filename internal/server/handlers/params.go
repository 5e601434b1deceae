// internal/server/handlers/params.go

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"geofeed/internal/domain/content"
)

// parseLocation reads lat/lng query parameters. Both absent is not an error
// and yields nil; one without the other is.
func parseLocation(r *http.Request, latKey, lngKey string) (*content.Location, error) {
	latStr := r.URL.Query().Get(latKey)
	lngStr := r.URL.Query().Get(lngKey)

	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, fmt.Errorf("both %s and %s are required", latKey, lngKey)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid %s", latKey)
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("invalid %s", lngKey)
	}

	return &content.Location{Latitude: lat, Longitude: lng}, nil
}

// parseInt returns 0 when the parameter is absent
func parseInt(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// parseFloat returns 0 when the parameter is absent
func parseFloat(r *http.Request, key string) (float64, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// parseList splits a comma separated parameter, dropping blanks
func parseList(r *http.Request, key string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
