package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Seeyong/pyowm/internal/config"
	"github.com/Seeyong/pyowm/internal/logger"
	"github.com/Seeyong/pyowm/internal/storage"
	"github.com/Seeyong/pyowm/pkg/httpclient"
	"github.com/Seeyong/pyowm/pkg/stations"
)

// App wires the API client, the stations manager and the local station index.
type App struct {
	cfg      *config.Config
	log      logger.Logger
	client   *httpclient.Client
	stations *stations.Manager
	store    storage.Store
	registry *prometheus.Registry
}

// New builds the application runtime from config. A nil transport selects the
// resty transport with the configured timeout.
func New(cfg *config.Config, log logger.Logger, transport httpclient.Transport) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	if transport == nil {
		transport = httpclient.NewRestyTransport(cfg.HTTPTimeout, restyLogger(log))
	}

	registry := prometheus.NewRegistry()
	client := httpclient.NewClient(transport,
		httpclient.WithAPIKey(cfg.APIKey),
		httpclient.WithUserAgent(cfg.UserAgent),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
		httpclient.WithLogger(log),
		httpclient.WithMetrics(httpclient.NewMetrics(registry)),
	)
	if cfg.APIKey == "" {
		log.WarnObj("no api key configured; calls will be unauthenticated", "config_hint", "set OWM_API_KEY")
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	return &App{
		cfg:      cfg,
		log:      log,
		client:   client,
		stations: stations.NewManager(client, cfg.StationsURL()),
		store:    store,
		registry: registry,
	}, nil
}

// Metrics exposes the API call collectors of this run.
func (a *App) Metrics() prometheus.Gatherer {
	return a.registry
}

// restyLogger routes resty's own diagnostics through zap when available.
func restyLogger(log logger.Logger) resty.Logger {
	if zl, ok := log.(*logger.ZapLogger); ok {
		return zl.Sugar()
	}
	return nil
}

// Close releases the station index.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		a.log.ErrorObj("storage close failed", "error", err)
		return err
	}
	return nil
}

// Call dispatches a raw API call. URIs starting with "/" are resolved against
// the configured base URL.
func (a *App) Call(ctx context.Context, method, uri string, params, headers map[string]string, data any) (int, any, error) {
	uri = a.resolveURI(uri)
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodGet:
		if data != nil {
			return 0, nil, errors.New("get does not accept --data")
		}
		return a.client.GetJSON(ctx, uri, params, headers)
	case http.MethodPost:
		return a.client.Post(ctx, uri, params, headers, data)
	case http.MethodPut:
		return a.client.Put(ctx, uri, params, headers, data)
	case http.MethodDelete:
		return a.client.Delete(ctx, uri, params, headers, data)
	default:
		return 0, nil, fmt.Errorf("unsupported method %q", method)
	}
}

func (a *App) resolveURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if strings.HasPrefix(uri, "/") {
		return a.cfg.BaseURL + uri
	}
	return uri
}

// ListStations returns every station of the account.
func (a *App) ListStations(ctx context.Context) ([]stations.Station, error) {
	return a.stations.GetStations(ctx)
}

// GetStation fetches a station by API id or by a locally recorded external id.
func (a *App) GetStation(ctx context.Context, ref string) (*stations.Station, error) {
	return a.stations.GetStation(ctx, a.ResolveStationID(ref))
}

// CreateStation registers st and records its id in the local index.
func (a *App) CreateStation(ctx context.Context, st stations.NewStation) (*stations.Station, error) {
	created, err := a.stations.CreateStation(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := a.store.PutStation(created.ExternalID, created.ID); err != nil {
		a.log.WarnObj("station index update failed", "station_index_error", map[string]any{
			"external_id": created.ExternalID,
			"id":          created.ID,
			"error":       err.Error(),
		})
	}
	a.log.InfoObj("station created", "station", map[string]any{
		"external_id": created.ExternalID,
		"id":          created.ID,
	})
	return created, nil
}

// UpdateStation replaces the fields of the station ref points at.
func (a *App) UpdateStation(ctx context.Context, ref string, fields stations.NewStation) (*stations.Station, error) {
	st := &stations.Station{
		ID:         a.ResolveStationID(ref),
		ExternalID: fields.ExternalID,
		Name:       fields.Name,
		Latitude:   fields.Latitude,
		Longitude:  fields.Longitude,
		Altitude:   fields.Altitude,
	}
	if err := a.stations.UpdateStation(ctx, st); err != nil {
		return nil, err
	}
	// the external id may have changed; drop every key still pointing at the id
	if err := a.store.RemoveStation(st.ID); err != nil {
		a.log.WarnObj("station index cleanup failed", "station_index_error", map[string]any{
			"id":    st.ID,
			"error": err.Error(),
		})
	}
	if err := a.store.PutStation(st.ExternalID, st.ID); err != nil {
		a.log.WarnObj("station index update failed", "station_index_error", map[string]any{
			"id":    st.ID,
			"error": err.Error(),
		})
	}
	return st, nil
}

// DeleteStation deletes the station ref points at and forgets it locally.
func (a *App) DeleteStation(ctx context.Context, ref string) (string, error) {
	id := a.ResolveStationID(ref)
	if err := a.stations.DeleteStation(ctx, id); err != nil {
		return id, err
	}
	if err := a.store.RemoveStation(id); err != nil {
		a.log.WarnObj("station index cleanup failed", "station_index_error", map[string]any{
			"id":    id,
			"error": err.Error(),
		})
	}
	return id, nil
}

// StationIndex returns the local external id to API id index.
func (a *App) StationIndex() (map[string]string, error) {
	return a.store.Stations()
}

// ResolveStationID maps a locally recorded external id to its API id. Unknown
// references are returned unchanged.
func (a *App) ResolveStationID(ref string) string {
	ref = strings.TrimSpace(ref)
	id, found, err := a.store.LookupStation(ref)
	if err != nil {
		a.log.WarnObj("station index lookup failed", "station_index_error", map[string]any{
			"ref":   ref,
			"error": err.Error(),
		})
		return ref
	}
	if found {
		return id
	}
	return ref
}
