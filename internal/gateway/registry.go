package gateway

import (
	"database/sql"

	"github.com/moniflow/backend/internal/store"
)

// staticRoutes is spec.md §6's hardcoded routing table, seeded into
// the SQLite-backed registry at startup so it can be extended without
// a redeploy (SPEC_FULL.md §D.2).
var staticRoutes = map[string]string{
	"user_management":   "http://localhost:8004",
	"collector":         "http://localhost:8001",
	"alert_service":     "http://localhost:8003",
	"dashboard_service": "http://localhost:8002",
}

// Service is one registered upstream.
type Service struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
}

// Registry is the SQLite-backed dynamic service registry.
type Registry struct{}

// NewRegistry builds a registry over the shared SQLite store.
func NewRegistry() *Registry {
	return &Registry{}
}

// Seed inserts every static route not already present. Idempotent;
// call once at startup.
func (r *Registry) Seed() error {
	for name, baseURL := range staticRoutes {
		existing, err := r.Get(name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := r.Create(Service{Name: name, BaseURL: baseURL}); err != nil {
			return err
		}
	}
	return nil
}

// Create registers a new upstream service.
func (r *Registry) Create(svc Service) error {
	_, err := store.DB.Exec(`
		INSERT INTO gateway_services (name, base_url) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET base_url = excluded.base_url, updated_at = CURRENT_TIMESTAMP
	`, svc.Name, svc.BaseURL)
	return err
}

// Get looks up a service by name. Returns nil, nil if unregistered.
func (r *Registry) Get(name string) (*Service, error) {
	var svc Service
	err := store.DB.QueryRow(`SELECT name, base_url FROM gateway_services WHERE name = ?`, name).
		Scan(&svc.Name, &svc.BaseURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// List returns every registered service.
func (r *Registry) List() ([]Service, error) {
	rows, err := store.DB.Query(`SELECT name, base_url FROM gateway_services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.Name, &svc.BaseURL); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

// Delete removes a service from the registry.
func (r *Registry) Delete(name string) error {
	_, err := store.DB.Exec(`DELETE FROM gateway_services WHERE name = ?`, name)
	return err
}
