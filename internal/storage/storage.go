// Package storage keeps the local index of stations created from this machine.
package storage

import (
	"fmt"
	"strings"
)

// Store maps station external ids to the ids assigned by the API.
type Store interface {
	Close() error
	PutStation(externalID, id string) error
	LookupStation(externalID string) (string, bool, error)
	RemoveStation(id string) error
	Stations() (map[string]string, error)
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error                               { return nil }
func (noopStore) PutStation(string, string) error            { return nil }
func (noopStore) LookupStation(string) (string, bool, error) { return "", false, nil }
func (noopStore) RemoveStation(string) error                 { return nil }
func (noopStore) Stations() (map[string]string, error)       { return map[string]string{}, nil }
