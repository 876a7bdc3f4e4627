package gateway

import "testing"

func TestRegistry_CreateGetList(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()

	if err := registry.Create(Service{Name: "collector", BaseURL: "http://localhost:8001"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	svc, err := registry.Get("collector")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if svc == nil || svc.BaseURL != "http://localhost:8001" {
		t.Fatalf("unexpected service: %+v", svc)
	}

	services, err := registry.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(services))
	}
}

func TestRegistry_GetUnregisteredReturnsNil(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()

	svc, err := registry.Get("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Fatalf("expected nil for unregistered service, got %+v", svc)
	}
}

func TestRegistry_CreateUpserts(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()

	if err := registry.Create(Service{Name: "collector", BaseURL: "http://localhost:8001"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := registry.Create(Service{Name: "collector", BaseURL: "http://localhost:9001"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	svc, err := registry.Get("collector")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if svc.BaseURL != "http://localhost:9001" {
		t.Fatalf("expected upserted base url, got %q", svc.BaseURL)
	}
}

func TestRegistry_Delete(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()

	if err := registry.Create(Service{Name: "collector", BaseURL: "http://localhost:8001"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := registry.Delete("collector"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	svc, err := registry.Get("collector")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if svc != nil {
		t.Fatalf("expected nil after delete, got %+v", svc)
	}
}

func TestRegistry_SeedIsIdempotentAndPreservesOverrides(t *testing.T) {
	setupStore(t)
	registry := NewRegistry()

	if err := registry.Create(Service{Name: "collector", BaseURL: "http://custom:9999"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := registry.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	svc, err := registry.Get("collector")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if svc.BaseURL != "http://custom:9999" {
		t.Fatalf("seed should not overwrite an existing override, got %q", svc.BaseURL)
	}

	services, err := registry.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(services) != len(staticRoutes) {
		t.Fatalf("expected %d seeded services, got %d", len(staticRoutes), len(services))
	}
}
