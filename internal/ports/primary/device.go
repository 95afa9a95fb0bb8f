package primary

import "context"

// Device status values. Devices are passive records updated by telemetry
// and maintenance; there is no enforced transition table.
const (
	DeviceStatusOnline      = "online"
	DeviceStatusOffline     = "offline"
	DeviceStatusDegraded    = "degraded"
	DeviceStatusMaintenance = "maintenance"
)

// DeviceService defines the primary port for the device fleet.
type DeviceService interface {
	// RegisterDevice adds a device to the fleet.
	RegisterDevice(ctx context.Context, req RegisterDeviceRequest) (*Device, error)

	// GetDevice retrieves a device by ID.
	GetDevice(ctx context.Context, deviceID string) (*Device, error)

	// ListDevices lists devices with optional filters.
	ListDevices(ctx context.Context, filters DeviceFilters) ([]*Device, error)

	// UpdateTelemetry records a telemetry report and refreshes last_seen.
	UpdateTelemetry(ctx context.Context, req DeviceTelemetryRequest) error

	// SetStatus writes a device status with an audited reason.
	SetStatus(ctx context.Context, req SetDeviceStatusRequest) (*Device, error)
}

// RegisterDeviceRequest contains parameters for adding a device.
type RegisterDeviceRequest struct {
	Name      string
	Location  string
	IPAddress string
}

// DeviceTelemetryRequest contains a telemetry report.
type DeviceTelemetryRequest struct {
	DeviceID       string
	BatteryPercent int
	StoragePercent int
	GPSEnabled     bool
}

// SetDeviceStatusRequest contains parameters for a status write.
type SetDeviceStatusRequest struct {
	DeviceID string
	Status   string
	Reason   string
}

// Device represents a registration device at the port boundary.
type Device struct {
	ID             string
	Name           string
	Location       string
	IPAddress      string
	Status         string
	BatteryPercent int
	StoragePercent int
	GPSEnabled     bool
	LastSeenAt     string
	CreatedAt      string
}

// DeviceFilters contains filter options for listing devices.
type DeviceFilters struct {
	Status   string
	Location string // exact match on deployment location
	Search   string // case-insensitive over name, ID, IP
	Limit    int
}
