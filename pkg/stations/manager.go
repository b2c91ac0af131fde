package stations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Seeyong/pyowm/pkg/apierr"
	"github.com/Seeyong/pyowm/pkg/httpclient"
)

// DefaultBaseURL is the Stations API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/3.0/stations"

// Manager performs CRUD calls against the Stations API.
type Manager struct {
	client  *httpclient.Client
	baseURL string
}

// NewManager binds a manager to client. An empty baseURL selects DefaultBaseURL.
func NewManager(client *httpclient.Client, baseURL string) *Manager {
	if client == nil {
		client = httpclient.NewClient(nil)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Manager{client: client, baseURL: baseURL}
}

// BaseURL returns the API root the manager talks to.
func (m *Manager) BaseURL() string { return m.baseURL }

// CreateStation registers a new station and returns it as stored by the API.
// Any success status other than 201 is reported as an api call error.
func (m *Manager) CreateStation(ctx context.Context, st NewStation) (*Station, error) {
	st = st.sanitize()
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid station: %w", err)
	}

	status, body, err := m.client.Execute(ctx, httpclient.Request{
		Method: http.MethodPost,
		URI:    m.baseURL,
		Data:   st,
	})
	if err != nil {
		return nil, fmt.Errorf("create station %s: %w", st.ExternalID, err)
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("create station %s: %w", st.ExternalID, &apierr.StatusError{
			StatusCode: status,
			Message:    "expected 201 Created",
			Kind:       apierr.ErrAPICall,
		})
	}

	var created Station
	if err := httpclient.DecodeJSONInto(body, &created); err != nil {
		return nil, fmt.Errorf("create station %s: %w", st.ExternalID, err)
	}
	return &created, nil
}

// GetStations lists every station of the account.
func (m *Manager) GetStations(ctx context.Context) ([]Station, error) {
	_, body, err := m.client.Execute(ctx, httpclient.Request{Method: http.MethodGet, URI: m.baseURL})
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}

	var out []Station
	if err := httpclient.DecodeJSONInto(body, &out); err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return out, nil
}

// GetStation fetches a single station by its API id.
func (m *Manager) GetStation(ctx context.Context, id string) (*Station, error) {
	uri, err := m.stationURI(id)
	if err != nil {
		return nil, err
	}

	_, body, err := m.client.Execute(ctx, httpclient.Request{Method: http.MethodGet, URI: uri})
	if err != nil {
		return nil, fmt.Errorf("get station %s: %w", id, err)
	}

	var st Station
	if err := httpclient.DecodeJSONInto(body, &st); err != nil {
		return nil, fmt.Errorf("get station %s: %w", id, err)
	}
	return &st, nil
}

// UpdateStation replaces the user supplied fields of st.
func (m *Manager) UpdateStation(ctx context.Context, st *Station) error {
	if st == nil {
		return errors.New("station is nil")
	}
	uri, err := m.stationURI(st.ID)
	if err != nil {
		return err
	}
	fields := st.Fields().sanitize()
	if err := fields.Validate(); err != nil {
		return fmt.Errorf("invalid station: %w", err)
	}

	// the API echoes the station back; the body is not needed here
	if _, _, err := m.client.Execute(ctx, httpclient.Request{Method: http.MethodPut, URI: uri, Data: fields}); err != nil {
		return fmt.Errorf("update station %s: %w", st.ID, err)
	}
	return nil
}

// DeleteStation removes the station with the given API id.
func (m *Manager) DeleteStation(ctx context.Context, id string) error {
	uri, err := m.stationURI(id)
	if err != nil {
		return err
	}
	if _, _, err := m.client.Delete(ctx, uri, nil, nil, nil); err != nil {
		return fmt.Errorf("delete station %s: %w", id, err)
	}
	return nil
}

func (m *Manager) stationURI(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("station id is required")
	}
	return m.baseURL + "/" + url.PathEscape(id), nil
}
