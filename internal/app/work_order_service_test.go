package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/example/vreg/internal/core/workorder"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// mockWorkOrderRepository implements secondary.WorkOrderRepository for testing.
type mockWorkOrderRepository struct {
	workOrders map[string]*secondary.WorkOrderRecord
	notes      map[string][]*secondary.WorkOrderNote
	nextID     int
}

func newMockWorkOrderRepository() *mockWorkOrderRepository {
	return &mockWorkOrderRepository{
		workOrders: make(map[string]*secondary.WorkOrderRecord),
		notes:      make(map[string][]*secondary.WorkOrderNote),
		nextID:     1,
	}
}

func (m *mockWorkOrderRepository) Create(ctx context.Context, record *secondary.WorkOrderRecord) error {
	record.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	m.workOrders[record.ID] = record
	return nil
}

func (m *mockWorkOrderRepository) GetByID(ctx context.Context, id string) (*secondary.WorkOrderRecord, error) {
	if r, ok := m.workOrders[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("work order %s: %w", id, secondary.ErrNotFound)
}

func (m *mockWorkOrderRepository) List(ctx context.Context, filters secondary.WorkOrderFilters) ([]*secondary.WorkOrderRecord, error) {
	var result []*secondary.WorkOrderRecord
	for _, r := range m.workOrders {
		if filters.DeviceID != "" && r.DeviceID != filters.DeviceID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockWorkOrderRepository) Transition(ctx context.Context, t secondary.WorkOrderTransition) error {
	r, ok := m.workOrders[t.WorkOrderID]
	if !ok {
		return fmt.Errorf("work order %s: %w", t.WorkOrderID, secondary.ErrNotFound)
	}
	if !slices.Contains(t.FromStatuses, r.Status) {
		return fmt.Errorf("work order %s is %s: %w", t.WorkOrderID, r.Status, secondary.ErrInvalidTransition)
	}
	r.Status = t.NewStatus
	now := time.Now().UTC().Format(time.RFC3339)
	if t.StampStartedAt && r.StartedAt == "" {
		r.StartedAt = now
	}
	if t.StampCompleted {
		r.CompletedAt = now
	}
	return nil
}

func (m *mockWorkOrderRepository) AddNote(ctx context.Context, workOrderID string, note *secondary.WorkOrderNote) error {
	if _, ok := m.workOrders[workOrderID]; !ok {
		return fmt.Errorf("work order %s: %w", workOrderID, secondary.ErrNotFound)
	}
	note.Seq = len(m.notes[workOrderID]) + 1
	note.ID = fmt.Sprintf("%s-N%d", workOrderID, note.Seq)
	note.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	m.notes[workOrderID] = append(m.notes[workOrderID], note)
	return nil
}

func (m *mockWorkOrderRepository) ListNotes(ctx context.Context, workOrderID string) ([]*secondary.WorkOrderNote, error) {
	return m.notes[workOrderID], nil
}

func (m *mockWorkOrderRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("WO-%03d", id), nil
}

// mockDeviceRepository implements secondary.DeviceRepository for testing.
type mockDeviceRepository struct {
	devices map[string]*secondary.DeviceRecord
	nextID  int
}

func newMockDeviceRepository() *mockDeviceRepository {
	return &mockDeviceRepository{
		devices: make(map[string]*secondary.DeviceRecord),
		nextID:  1,
	}
}

func (m *mockDeviceRepository) Create(ctx context.Context, record *secondary.DeviceRecord) error {
	m.devices[record.ID] = record
	return nil
}

func (m *mockDeviceRepository) GetByID(ctx context.Context, id string) (*secondary.DeviceRecord, error) {
	if r, ok := m.devices[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("device %s: %w", id, secondary.ErrNotFound)
}

func (m *mockDeviceRepository) List(ctx context.Context, filters secondary.DeviceFilters) ([]*secondary.DeviceRecord, error) {
	var result []*secondary.DeviceRecord
	for _, r := range m.devices {
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockDeviceRepository) UpdateTelemetry(ctx context.Context, t secondary.DeviceTelemetry) error {
	r, ok := m.devices[t.DeviceID]
	if !ok {
		return fmt.Errorf("device %s: %w", t.DeviceID, secondary.ErrNotFound)
	}
	r.BatteryPercent = t.BatteryPercent
	r.StoragePercent = t.StoragePercent
	r.GPSEnabled = t.GPSEnabled
	r.LastSeenAt = time.Now().UTC().Format(time.RFC3339)
	return nil
}

func (m *mockDeviceRepository) SetStatus(ctx context.Context, id, status, actor, reason string) error {
	r, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("device %s: %w", id, secondary.ErrNotFound)
	}
	r.Status = status
	return nil
}

func (m *mockDeviceRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("DEV-%03d", id), nil
}

func seedDevice(repo *mockDeviceRepository, id string) {
	repo.devices[id] = &secondary.DeviceRecord{
		ID:     id,
		Name:   "Kiosk Alpha",
		Status: "online",
	}
}

func newWorkOrderFixture(t *testing.T) (*WorkOrderServiceImpl, *mockWorkOrderRepository, *mockDeviceRepository) {
	t.Helper()
	woRepo := newMockWorkOrderRepository()
	devRepo := newMockDeviceRepository()
	seedDevice(devRepo, "DEV-001")
	return NewWorkOrderService(woRepo, devRepo, false), woRepo, devRepo
}

func TestCreateWorkOrder(t *testing.T) {
	svc, _, _ := newWorkOrderFixture(t)

	got, err := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
		DeviceID:    "DEV-001",
		Type:        workorder.TypeCorrective,
		Priority:    "high",
		Description: "fingerprint scanner returns blank frames",
	})
	if err != nil {
		t.Fatalf("CreateWorkOrder failed: %v", err)
	}
	if got.Status != workorder.StatusOpen {
		t.Errorf("Status = %s, want open", got.Status)
	}
	if got.StartedAt != "" || got.CompletedAt != "" {
		t.Error("timestamps stamped at creation")
	}
}

func TestCreateWorkOrderUnknownDevice(t *testing.T) {
	svc, _, _ := newWorkOrderFixture(t)

	_, err := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
		DeviceID: "DEV-404",
		Type:     workorder.TypeCleaning,
		Priority: "low",
	})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestWorkOrderLifecycle(t *testing.T) {
	svc, _, _ := newWorkOrderFixture(t)
	created, err := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
		DeviceID: "DEV-001",
		Type:     workorder.TypeRepair,
		Priority: "critical",
	})
	if err != nil {
		t.Fatalf("CreateWorkOrder failed: %v", err)
	}

	started, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: created.ID, NewStatus: workorder.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.StartedAt == "" {
		t.Error("started_at not stamped on first entry into in_progress")
	}
	firstStart := started.StartedAt

	// Parts cycle: in_progress -> awaiting_parts -> in_progress keeps the
	// original started_at.
	if _, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: created.ID, NewStatus: workorder.StatusAwaitingParts,
	}); err != nil {
		t.Fatalf("awaiting_parts failed: %v", err)
	}
	resumed, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: created.ID, NewStatus: workorder.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if resumed.StartedAt != firstStart {
		t.Errorf("started_at rewritten on re-entry: %s != %s", resumed.StartedAt, firstStart)
	}

	completed, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: created.ID, NewStatus: workorder.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.CompletedAt == "" {
		t.Error("completed_at not stamped")
	}

	// Completed is terminal.
	_, err = svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: created.ID, NewStatus: workorder.StatusOpen,
	})
	if !errors.Is(err, secondary.ErrInvalidTransition) {
		t.Fatalf("reopen error = %v, want ErrInvalidTransition", err)
	}
}

func TestWorkOrderIllegalTransitions(t *testing.T) {
	svc, _, _ := newWorkOrderFixture(t)
	created, _ := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
		DeviceID: "DEV-001", Type: workorder.TypePreventive, Priority: "low",
	})

	// Completing straight from open skips the work.
	_, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: created.ID, NewStatus: workorder.StatusCompleted,
	})
	if !errors.Is(err, secondary.ErrInvalidTransition) {
		t.Fatalf("open->completed error = %v, want ErrInvalidTransition", err)
	}
}

func TestWorkOrderCancelFromAnyActive(t *testing.T) {
	for _, path := range [][]string{
		{},
		{workorder.StatusInProgress},
		{workorder.StatusInProgress, workorder.StatusAwaitingParts},
	} {
		svc, _, _ := newWorkOrderFixture(t)
		created, _ := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
			DeviceID: "DEV-001", Type: workorder.TypeRepair, Priority: "medium",
		})
		for _, status := range path {
			if _, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
				WorkOrderID: created.ID, NewStatus: status,
			}); err != nil {
				t.Fatalf("path step %s failed: %v", status, err)
			}
		}
		if _, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
			WorkOrderID: created.ID, NewStatus: workorder.StatusCancelled,
		}); err != nil {
			t.Errorf("cancel after %v failed: %v", path, err)
		}
	}
}

func TestWorkOrderFlipsDeviceToMaintenance(t *testing.T) {
	woRepo := newMockWorkOrderRepository()
	devRepo := newMockDeviceRepository()
	seedDevice(devRepo, "DEV-001")
	svc := NewWorkOrderService(woRepo, devRepo, true)

	created, _ := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
		DeviceID: "DEV-001", Type: workorder.TypeRepair, Priority: "high",
	})
	if _, err := svc.UpdateStatus(reviewerCtx(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: created.ID, NewStatus: workorder.StatusInProgress,
	}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	dev, _ := devRepo.GetByID(context.Background(), "DEV-001")
	if dev.Status != primary.DeviceStatusMaintenance {
		t.Errorf("device status = %s, want maintenance", dev.Status)
	}
}

func TestAddNoteAppendOnly(t *testing.T) {
	svc, _, _ := newWorkOrderFixture(t)
	created, _ := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
		DeviceID: "DEV-001", Type: workorder.TypeCalibration, Priority: "low",
	})

	texts := []string{"arrived on site", "sensor recalibrated", "verified against reference card"}
	for i, text := range texts {
		note, err := svc.AddNote(reviewerCtx(), primary.AddWorkOrderNoteRequest{
			WorkOrderID: created.ID, Text: text,
		})
		if err != nil {
			t.Fatalf("AddNote %d failed: %v", i, err)
		}
		if note.Seq != i+1 {
			t.Errorf("Seq = %d, want %d", note.Seq, i+1)
		}
	}

	notes, err := svc.ListNotes(reviewerCtx(), created.ID)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != len(texts) {
		t.Fatalf("notes = %d, want %d", len(notes), len(texts))
	}
	for i, n := range notes {
		if n.Text != texts[i] {
			t.Errorf("note %d = %q, want %q (order must be preserved)", i, n.Text, texts[i])
		}
	}
}

func TestAddNoteBlankRejected(t *testing.T) {
	svc, _, _ := newWorkOrderFixture(t)
	created, _ := svc.CreateWorkOrder(reviewerCtx(), primary.CreateWorkOrderRequest{
		DeviceID: "DEV-001", Type: workorder.TypeCleaning, Priority: "low",
	})

	_, err := svc.AddNote(reviewerCtx(), primary.AddWorkOrderNoteRequest{
		WorkOrderID: created.ID, Text: "   ",
	})
	if !errors.Is(err, secondary.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
