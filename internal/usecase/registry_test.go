package usecase

import (
	"context"
	"errors"
	"testing"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
)

func TestRegistryAddDefaults(t *testing.T) {
	store := &fakeEndpointStore{}
	reg := NewEndpointRegistry(store)

	ep, err := reg.Add(context.Background(), "alerts", "https://example.com/hook", nil, 70)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if ep.ID == "" {
		t.Fatal("expected generated id")
	}
	if !ep.Enabled {
		t.Fatal("new endpoint must be enabled")
	}
	if len(ep.Types) != 3 {
		t.Fatalf("expected all action types, got %v", ep.Types)
	}
	if store.saves != 1 {
		t.Fatalf("expected one persist, got %d", store.saves)
	}
}

func TestRegistryAddRollbackOnPersistFailure(t *testing.T) {
	store := &fakeEndpointStore{failSave: true}
	reg := NewEndpointRegistry(store)

	if _, err := reg.Add(context.Background(), "a", "https://x", nil, 70); err == nil {
		t.Fatal("expected error")
	}
	if got := len(reg.List()); got != 0 {
		t.Fatalf("failed add must roll back, have %d endpoints", got)
	}
}

func TestRegistryEmptyPatchUnchanged(t *testing.T) {
	store := &fakeEndpointStore{}
	reg := NewEndpointRegistry(store)

	ep, err := reg.Add(context.Background(), "alerts", "https://example.com/hook", []models.Action{models.ActionBuy}, 80)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := reg.Update(context.Background(), ep.ID, models.EndpointPatch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != ep.Name || got.URL != ep.URL || got.Enabled != ep.Enabled || got.MinConfidence != ep.MinConfidence {
		t.Fatalf("empty patch changed endpoint: %+v vs %+v", got, ep)
	}
}

func TestRegistryUpdateFields(t *testing.T) {
	store := &fakeEndpointStore{}
	reg := NewEndpointRegistry(store)

	ep, _ := reg.Add(context.Background(), "alerts", "https://example.com/hook", nil, 70)

	enabled := false
	minConf := 90
	got, err := reg.Update(context.Background(), ep.ID, models.EndpointPatch{
		Enabled:       &enabled,
		MinConfidence: &minConf,
		Types:         []models.Action{models.ActionSell},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Enabled || got.MinConfidence != 90 || len(got.Types) != 1 {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Name != "alerts" {
		t.Fatalf("unpatched field changed: %q", got.Name)
	}
}

func TestRegistryUpdateNotFound(t *testing.T) {
	reg := NewEndpointRegistry(&fakeEndpointStore{})
	if _, err := reg.Update(context.Background(), "missing", models.EndpointPatch{}); !errors.Is(err, domrepo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryRemoveAbsentIsNoop(t *testing.T) {
	store := &fakeEndpointStore{}
	reg := NewEndpointRegistry(store)
	if err := reg.Remove(context.Background(), "missing"); err != nil {
		t.Fatalf("removing absent id must be a no-op, got %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("no-op remove must not persist, got %d saves", store.saves)
	}
}

func TestRegistryRemove(t *testing.T) {
	store := &fakeEndpointStore{}
	reg := NewEndpointRegistry(store)

	ep, _ := reg.Add(context.Background(), "alerts", "https://example.com/hook", nil, 70)
	if err := reg.Remove(context.Background(), ep.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := reg.Get(ep.ID); !errors.Is(err, domrepo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestRegistryInitAndListEnabled(t *testing.T) {
	store := &fakeEndpointStore{endpoints: []models.Endpoint{
		{ID: "1", Name: "on", Enabled: true},
		{ID: "2", Name: "off", Enabled: false},
		{ID: "3", Name: "also-on", Enabled: true},
	}}
	reg := NewEndpointRegistry(store)
	if err := reg.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	enabled := reg.ListEnabled()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled, got %d", len(enabled))
	}
	if enabled[0].Name != "on" || enabled[1].Name != "also-on" {
		t.Fatalf("insertion order not preserved: %v", enabled)
	}
}
