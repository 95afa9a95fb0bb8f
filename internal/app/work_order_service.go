package app

import (
	"context"
	"fmt"

	"github.com/example/vreg/internal/core/filter"
	"github.com/example/vreg/internal/core/workorder"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// WorkOrderServiceImpl implements the WorkOrderService interface.
type WorkOrderServiceImpl struct {
	workOrderRepo secondary.WorkOrderRepository
	deviceRepo    secondary.DeviceRepository

	// flipMaintenance controls whether starting a work order moves the
	// device to maintenance status. Config-driven.
	flipMaintenance bool
}

// NewWorkOrderService creates a new WorkOrderService with injected dependencies.
func NewWorkOrderService(workOrderRepo secondary.WorkOrderRepository, deviceRepo secondary.DeviceRepository, flipMaintenance bool) *WorkOrderServiceImpl {
	return &WorkOrderServiceImpl{
		workOrderRepo:   workOrderRepo,
		deviceRepo:      deviceRepo,
		flipMaintenance: flipMaintenance,
	}
}

// CreateWorkOrder opens a new maintenance task against a device.
func (s *WorkOrderServiceImpl) CreateWorkOrder(ctx context.Context, req primary.CreateWorkOrderRequest) (*primary.WorkOrder, error) {
	if g := workorder.ValidType(req.Type); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}
	if !validPriority(req.Priority) {
		return nil, fmt.Errorf("%w: invalid priority: %s (must be low, medium, high, or critical)", secondary.ErrValidation, req.Priority)
	}

	// Validate device exists
	if _, err := s.deviceRepo.GetByID(ctx, req.DeviceID); err != nil {
		return nil, fmt.Errorf("failed to validate device: %w", err)
	}

	nextID, err := s.workOrderRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate work order ID: %w", err)
	}

	record := &secondary.WorkOrderRecord{
		ID:          nextID,
		DeviceID:    req.DeviceID,
		Type:        req.Type,
		Priority:    req.Priority,
		Status:      workorder.StatusOpen,
		Description: req.Description,
	}
	if err := s.workOrderRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}

	created, err := s.workOrderRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created work order: %w", err)
	}
	return s.recordToWorkOrder(created), nil
}

// GetWorkOrder retrieves a work order by ID.
func (s *WorkOrderServiceImpl) GetWorkOrder(ctx context.Context, workOrderID string) (*primary.WorkOrder, error) {
	record, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return s.recordToWorkOrder(record), nil
}

// ListWorkOrders lists work orders with optional filters.
func (s *WorkOrderServiceImpl) ListWorkOrders(ctx context.Context, filters primary.WorkOrderFilters) ([]*primary.WorkOrder, error) {
	records, err := s.workOrderRepo.List(ctx, secondary.WorkOrderFilters{
		DeviceID: filters.DeviceID,
		Status:   filters.Status,
		Type:     filters.Type,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	workOrders := make([]*primary.WorkOrder, len(records))
	for i, r := range records {
		workOrders[i] = s.recordToWorkOrder(r)
	}

	since, until, err := parseTimeRange(filters.Since, filters.Until)
	if err != nil {
		return nil, err
	}
	var preds []filter.Predicate[*primary.WorkOrder]
	if filters.Search != "" {
		preds = append(preds, filter.TextSearch(filters.Search, func(wo *primary.WorkOrder) []string {
			return []string{wo.ID, wo.DeviceID, wo.Description}
		}))
	}
	if !since.IsZero() || !until.IsZero() {
		preds = append(preds, filter.DateRange(since, until, filter.RFC3339Field(func(wo *primary.WorkOrder) string {
			return wo.CreatedAt
		})))
	}
	return filter.Apply(workOrders, preds...), nil
}

// UpdateStatus moves a work order along its transition table.
func (s *WorkOrderServiceImpl) UpdateStatus(ctx context.Context, req primary.UpdateWorkOrderStatusRequest) (*primary.WorkOrder, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check; the store re-checks the source status
	// atomically inside Transition.
	existing, err := s.workOrderRepo.GetByID(ctx, req.WorkOrderID)
	if err != nil {
		return nil, err
	}
	if g := workorder.CanTransition(existing.ID, existing.Status, req.NewStatus); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrInvalidTransition, g.Reason)
	}

	if err := s.workOrderRepo.Transition(ctx, secondary.WorkOrderTransition{
		WorkOrderID:    req.WorkOrderID,
		FromStatuses:   workorder.SourceStatuses(req.NewStatus),
		NewStatus:      req.NewStatus,
		Actor:          actor,
		StampStartedAt: workorder.StampsStartedAt(req.NewStatus),
		StampCompleted: workorder.StampsCompletedAt(req.NewStatus),
	}); err != nil {
		return nil, err
	}

	if s.flipMaintenance && req.NewStatus == workorder.StatusInProgress {
		if err := s.deviceRepo.SetStatus(ctx, existing.DeviceID, primary.DeviceStatusMaintenance, actor,
			fmt.Sprintf("work order %s in progress", existing.ID)); err != nil {
			return nil, fmt.Errorf("failed to move device to maintenance: %w", err)
		}
	}

	updated, err := s.workOrderRepo.GetByID(ctx, req.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated work order: %w", err)
	}
	return s.recordToWorkOrder(updated), nil
}

// AddNote appends to the work order's append-only note sequence.
func (s *WorkOrderServiceImpl) AddNote(ctx context.Context, req primary.AddWorkOrderNoteRequest) (*primary.WorkOrderNote, error) {
	if g := workorder.ValidNoteText(req.Text); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	// Notes may be added at any status, including terminal ones: a
	// completed repair can still gain a postmortem note.
	if _, err := s.workOrderRepo.GetByID(ctx, req.WorkOrderID); err != nil {
		return nil, err
	}

	note := &secondary.WorkOrderNote{
		Author: actor,
		Text:   req.Text,
	}
	if err := s.workOrderRepo.AddNote(ctx, req.WorkOrderID, note); err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}

	return &primary.WorkOrderNote{
		ID:        note.ID,
		Seq:       note.Seq,
		Author:    note.Author,
		Text:      note.Text,
		CreatedAt: note.CreatedAt,
	}, nil
}

// ListNotes returns the notes for a work order in append order.
func (s *WorkOrderServiceImpl) ListNotes(ctx context.Context, workOrderID string) ([]*primary.WorkOrderNote, error) {
	records, err := s.workOrderRepo.ListNotes(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*primary.WorkOrderNote, len(records))
	for i, n := range records {
		notes[i] = &primary.WorkOrderNote{
			ID:        n.ID,
			Seq:       n.Seq,
			Author:    n.Author,
			Text:      n.Text,
			CreatedAt: n.CreatedAt,
		}
	}
	return notes, nil
}

func (s *WorkOrderServiceImpl) recordToWorkOrder(r *secondary.WorkOrderRecord) *primary.WorkOrder {
	return &primary.WorkOrder{
		ID:          r.ID,
		DeviceID:    r.DeviceID,
		Type:        r.Type,
		Priority:    r.Priority,
		Status:      r.Status,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
}

func validPriority(p string) bool {
	switch p {
	case "low", "medium", "high", "critical":
		return true
	}
	return false
}

// Ensure WorkOrderServiceImpl implements the interface
var _ primary.WorkOrderService = (*WorkOrderServiceImpl)(nil)
