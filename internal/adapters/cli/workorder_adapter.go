package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/vreg/internal/ports/primary"
)

// WorkOrderAdapter translates CLI operations to WorkOrderService calls.
type WorkOrderAdapter struct {
	service primary.WorkOrderService
	out     io.Writer
}

// NewWorkOrderAdapter creates a new WorkOrderAdapter with the given service.
func NewWorkOrderAdapter(service primary.WorkOrderService, out io.Writer) *WorkOrderAdapter {
	return &WorkOrderAdapter{service: service, out: out}
}

// Create opens a new maintenance work order against a device.
func (a *WorkOrderAdapter) Create(ctx context.Context, req primary.CreateWorkOrderRequest) error {
	wo, err := a.service.CreateWorkOrder(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created work order %s for device %s (%s, %s)\n",
		wo.ID, wo.DeviceID, wo.Type, wo.Priority)
	return nil
}

// List lists work orders with optional filters.
func (a *WorkOrderAdapter) List(ctx context.Context, filters primary.WorkOrderFilters) error {
	orders, err := a.service.ListWorkOrders(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list work orders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No work orders found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-16s %-10s %s\n", "ID", "DEVICE", "TYPE", "PRIORITY", "STATUS")
	fmt.Fprintln(a.out, strings.Repeat("─", 64))
	for _, wo := range orders {
		fmt.Fprintf(a.out, "%-10s %-10s %-16s %-10s %s\n",
			wo.ID, wo.DeviceID, wo.Type, wo.Priority, statusColor(wo.Status))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays details and notes for a single work order.
func (a *WorkOrderAdapter) Show(ctx context.Context, workOrderID string) error {
	wo, err := a.service.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("failed to get work order: %w", err)
	}

	fmt.Fprintf(a.out, "\nWork Order: %s\n", wo.ID)
	fmt.Fprintf(a.out, "Device:   %s\n", wo.DeviceID)
	fmt.Fprintf(a.out, "Type:     %s (%s)\n", wo.Type, wo.Priority)
	fmt.Fprintf(a.out, "Status:   %s\n", statusColor(wo.Status))
	if wo.Description != "" {
		fmt.Fprintf(a.out, "Details:  %s\n", wo.Description)
	}
	fmt.Fprintf(a.out, "Created:  %s\n", wo.CreatedAt)
	if wo.StartedAt != "" {
		fmt.Fprintf(a.out, "Started:  %s\n", wo.StartedAt)
	}
	if wo.CompletedAt != "" {
		fmt.Fprintf(a.out, "Completed: %s\n", wo.CompletedAt)
	}

	notes, err := a.service.ListNotes(ctx, workOrderID)
	if err == nil && len(notes) > 0 {
		fmt.Fprintln(a.out, "\nNotes:")
		for _, n := range notes {
			fmt.Fprintf(a.out, "  %d. [%s] %s\n", n.Seq, n.Author, n.Text)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// UpdateStatus moves a work order along its transition table.
func (a *WorkOrderAdapter) UpdateStatus(ctx context.Context, workOrderID, newStatus string) error {
	wo, err := a.service.UpdateStatus(ctx, primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: workOrderID,
		NewStatus:   newStatus,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Work order %s is now %s\n", wo.ID, statusColor(wo.Status))
	return nil
}

// AddNote appends a note to the work order.
func (a *WorkOrderAdapter) AddNote(ctx context.Context, workOrderID, text string) error {
	note, err := a.service.AddNote(ctx, primary.AddWorkOrderNoteRequest{
		WorkOrderID: workOrderID,
		Text:        text,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Added note #%d to %s\n", note.Seq, workOrderID)
	return nil
}
