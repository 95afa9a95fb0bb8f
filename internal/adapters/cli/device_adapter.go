package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/vreg/internal/ports/primary"
)

// DeviceAdapter translates CLI operations to DeviceService calls.
type DeviceAdapter struct {
	service primary.DeviceService
	out     io.Writer
}

// NewDeviceAdapter creates a new DeviceAdapter with the given service.
func NewDeviceAdapter(service primary.DeviceService, out io.Writer) *DeviceAdapter {
	return &DeviceAdapter{service: service, out: out}
}

// Register adds a device to the fleet.
func (a *DeviceAdapter) Register(ctx context.Context, name, location, ipAddress string) error {
	dev, err := a.service.RegisterDevice(ctx, primary.RegisterDeviceRequest{
		Name:      name,
		Location:  location,
		IPAddress: ipAddress,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Registered device %s: %s\n", dev.ID, dev.Name)
	return nil
}

// List lists devices with optional filters.
func (a *DeviceAdapter) List(ctx context.Context, filters primary.DeviceFilters) error {
	devices, err := a.service.ListDevices(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		fmt.Fprintln(a.out, "No devices found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-20s %-18s %-6s %-6s %s\n", "ID", "NAME", "LOCATION", "BATT", "DISK", "STATUS")
	fmt.Fprintln(a.out, strings.Repeat("─", 76))
	for _, d := range devices {
		fmt.Fprintf(a.out, "%-10s %-20s %-18s %5d%% %5d%% %s\n",
			d.ID, d.Name, d.Location, d.BatteryPercent, d.StoragePercent, statusColor(d.Status))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays details for a single device.
func (a *DeviceAdapter) Show(ctx context.Context, deviceID string) error {
	d, err := a.service.GetDevice(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("failed to get device: %w", err)
	}

	fmt.Fprintf(a.out, "\nDevice:   %s\n", d.ID)
	fmt.Fprintf(a.out, "Name:     %s\n", d.Name)
	if d.Location != "" {
		fmt.Fprintf(a.out, "Location: %s\n", d.Location)
	}
	if d.IPAddress != "" {
		fmt.Fprintf(a.out, "IP:       %s\n", d.IPAddress)
	}
	fmt.Fprintf(a.out, "Status:   %s\n", statusColor(d.Status))
	fmt.Fprintf(a.out, "Battery:  %d%%  Storage: %d%%  GPS: %v\n",
		d.BatteryPercent, d.StoragePercent, d.GPSEnabled)
	if d.LastSeenAt != "" {
		fmt.Fprintf(a.out, "Last seen: %s\n", d.LastSeenAt)
	}
	fmt.Fprintf(a.out, "Created:  %s\n\n", d.CreatedAt)
	return nil
}

// SetStatus writes a device status with an audited reason.
func (a *DeviceAdapter) SetStatus(ctx context.Context, deviceID, status, reason string) error {
	dev, err := a.service.SetStatus(ctx, primary.SetDeviceStatusRequest{
		DeviceID: deviceID,
		Status:   status,
		Reason:   reason,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Device %s is now %s\n", dev.ID, statusColor(dev.Status))
	return nil
}
