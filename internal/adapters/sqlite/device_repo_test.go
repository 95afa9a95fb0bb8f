package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/vreg/internal/ports/secondary"
)

func TestDeviceRepositoryTelemetry(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDeviceRepository(conn)
	ctx := context.Background()

	insertTestDevice(t, conn, "DEV-001", "online")

	err := repo.UpdateTelemetry(ctx, secondary.DeviceTelemetry{
		DeviceID:       "DEV-001",
		BatteryPercent: 42,
		StoragePercent: 87,
		GPSEnabled:     true,
	})
	if err != nil {
		t.Fatalf("UpdateTelemetry failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "DEV-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.BatteryPercent != 42 || got.StoragePercent != 87 || !got.GPSEnabled {
		t.Errorf("telemetry not applied: %+v", got)
	}
	if got.LastSeenAt == "" {
		t.Error("expected last_seen_at stamped")
	}
}

func TestDeviceRepositoryTelemetryNotFound(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDeviceRepository(conn)

	err := repo.UpdateTelemetry(context.Background(), secondary.DeviceTelemetry{DeviceID: "DEV-999"})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeviceRepositorySetStatus(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDeviceRepository(conn)
	ctx := context.Background()

	insertTestDevice(t, conn, "DEV-001", "online")

	err := repo.SetStatus(ctx, "DEV-001", "maintenance", "tech@ec.gov", "work order started")
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "DEV-001")
	if got.Status != "maintenance" {
		t.Errorf("expected maintenance, got %s", got.Status)
	}

	entries := auditEntries(t, conn, "device", "DEV-001")
	if len(entries) != 1 || entries[0].NewStatus != "maintenance" {
		t.Errorf("expected audited status change, got %v", entries)
	}
}

func TestDeviceRepositoryGetNextID(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDeviceRepository(conn)
	ctx := context.Background()

	insertTestDevice(t, conn, "DEV-011", "offline")
	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "DEV-012" {
		t.Errorf("expected DEV-012, got %s", id)
	}
}
