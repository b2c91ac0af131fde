// Package stations manages user weather stations through the Stations API.
package stations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Station is a weather station as stored by the API.
type Station struct {
	ID         string    `json:"id" yaml:"id"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
	ExternalID string    `json:"external_id" yaml:"external_id"`
	Name       string    `json:"name" yaml:"name"`
	Latitude   float64   `json:"latitude" yaml:"latitude"`
	Longitude  float64   `json:"longitude" yaml:"longitude"`
	Altitude   *float64  `json:"altitude,omitempty" yaml:"altitude,omitempty"`
	Rank       int       `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// NewStation holds the user supplied fields of a station.
type NewStation struct {
	ExternalID string   `json:"external_id" yaml:"external_id"`
	Name       string   `json:"name" yaml:"name"`
	Latitude   float64  `json:"latitude" yaml:"latitude"`
	Longitude  float64  `json:"longitude" yaml:"longitude"`
	Altitude   *float64 `json:"altitude,omitempty" yaml:"altitude,omitempty"`
}

// Fields returns the user supplied fields of s.
func (s Station) Fields() NewStation {
	return NewStation{
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		Altitude:   s.Altitude,
	}
}

// Validate checks the fields the API requires.
func (n NewStation) Validate() error {
	if strings.TrimSpace(n.ExternalID) == "" {
		return errors.New("external_id is required")
	}
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("name is required for station %q", n.ExternalID)
	}
	if n.Latitude < -90 || n.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", n.Latitude)
	}
	if n.Longitude < -180 || n.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", n.Longitude)
	}
	return nil
}

func (n NewStation) sanitize() NewStation {
	n.ExternalID = strings.TrimSpace(n.ExternalID)
	n.Name = strings.TrimSpace(n.Name)
	return n
}

// LoadNewStation reads a station definition from a YAML or JSON file.
func LoadNewStation(path string) (NewStation, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewStation{}, errors.New("station file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return NewStation{}, fmt.Errorf("open station file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return NewStation{}, fmt.Errorf("read station file: %w", err)
	}

	st, err := parseNewStation(raw, filepath.Ext(path))
	if err != nil {
		return NewStation{}, err
	}
	st = st.sanitize()
	if err := st.Validate(); err != nil {
		return NewStation{}, fmt.Errorf("station file %s: %w", path, err)
	}
	return st, nil
}

type unmarshalFn func([]byte, any) error

func parseNewStation(data []byte, ext string) (NewStation, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var st NewStation
		if err := d.fn(data, &st); err != nil {
			errs = append(errs, fmt.Errorf("decode %s station: %w", d.name, err))
			continue
		}
		return st, nil
	}

	if len(errs) > 0 {
		return NewStation{}, errors.Join(errs...)
	}
	return NewStation{}, errors.New("station file format not recognized (expected YAML or JSON)")
}
