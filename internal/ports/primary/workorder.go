package primary

import "context"

// WorkOrderService defines the primary port for device maintenance tracking.
type WorkOrderService interface {
	// CreateWorkOrder opens a new maintenance task against a device.
	CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest) (*WorkOrder, error)

	// GetWorkOrder retrieves a work order by ID.
	GetWorkOrder(ctx context.Context, workOrderID string) (*WorkOrder, error)

	// ListWorkOrders lists work orders with optional filters.
	ListWorkOrders(ctx context.Context, filters WorkOrderFilters) ([]*WorkOrder, error)

	// UpdateStatus moves a work order along its transition table.
	UpdateStatus(ctx context.Context, req UpdateWorkOrderStatusRequest) (*WorkOrder, error)

	// AddNote appends to the work order's append-only note sequence.
	AddNote(ctx context.Context, req AddWorkOrderNoteRequest) (*WorkOrderNote, error)

	// ListNotes returns the notes for a work order in append order.
	ListNotes(ctx context.Context, workOrderID string) ([]*WorkOrderNote, error)
}

// CreateWorkOrderRequest contains parameters for opening a work order.
type CreateWorkOrderRequest struct {
	DeviceID    string
	Type        string // preventive, corrective, calibration, firmware_update, cleaning, repair
	Priority    string // low, medium, high, critical
	Description string
}

// UpdateWorkOrderStatusRequest contains parameters for a status transition.
type UpdateWorkOrderStatusRequest struct {
	WorkOrderID string
	NewStatus   string
}

// AddWorkOrderNoteRequest contains parameters for appending a note.
type AddWorkOrderNoteRequest struct {
	WorkOrderID string
	Text        string
}

// WorkOrder represents a maintenance task at the port boundary.
type WorkOrder struct {
	ID          string
	DeviceID    string
	Type        string
	Priority    string
	Status      string
	Description string
	CreatedAt   string
	StartedAt   string
	CompletedAt string
}

// WorkOrderNote is one entry of a work order's note sequence.
type WorkOrderNote struct {
	ID        string
	Seq       int
	Author    string
	Text      string
	CreatedAt string
}

// WorkOrderFilters contains filter options for listing work orders.
type WorkOrderFilters struct {
	DeviceID string
	Status   string
	Type     string
	Search   string
	Since    string // RFC3339, inclusive lower bound on CreatedAt
	Until    string // RFC3339, inclusive upper bound on CreatedAt
	Limit    int
}
