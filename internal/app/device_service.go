package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/vreg/internal/core/filter"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// DeviceServiceImpl implements the DeviceService interface.
type DeviceServiceImpl struct {
	deviceRepo secondary.DeviceRepository
}

// NewDeviceService creates a new DeviceService with injected dependencies.
func NewDeviceService(deviceRepo secondary.DeviceRepository) *DeviceServiceImpl {
	return &DeviceServiceImpl{deviceRepo: deviceRepo}
}

// RegisterDevice adds a device to the fleet.
func (s *DeviceServiceImpl) RegisterDevice(ctx context.Context, req primary.RegisterDeviceRequest) (*primary.Device, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: device name must not be empty", secondary.ErrValidation)
	}

	nextID, err := s.deviceRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate device ID: %w", err)
	}

	record := &secondary.DeviceRecord{
		ID:        nextID,
		Name:      req.Name,
		Location:  req.Location,
		IPAddress: req.IPAddress,
		Status:    primary.DeviceStatusOffline,
	}
	if err := s.deviceRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	created, err := s.deviceRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registered device: %w", err)
	}
	return s.recordToDevice(created), nil
}

// GetDevice retrieves a device by ID.
func (s *DeviceServiceImpl) GetDevice(ctx context.Context, deviceID string) (*primary.Device, error) {
	record, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return s.recordToDevice(record), nil
}

// ListDevices lists devices with optional filters.
func (s *DeviceServiceImpl) ListDevices(ctx context.Context, filters primary.DeviceFilters) ([]*primary.Device, error) {
	records, err := s.deviceRepo.List(ctx, secondary.DeviceFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]*primary.Device, len(records))
	for i, r := range records {
		devices[i] = s.recordToDevice(r)
	}
	var preds []filter.Predicate[*primary.Device]
	if filters.Search != "" {
		preds = append(preds, filter.TextSearch(filters.Search, func(d *primary.Device) []string {
			return []string{d.ID, d.Name, d.Location, d.IPAddress}
		}))
	}
	if filters.Location != "" {
		preds = append(preds, filter.Exact(filters.Location, func(d *primary.Device) string {
			return d.Location
		}))
	}
	return filter.Apply(devices, preds...), nil
}

// UpdateTelemetry records a telemetry report and refreshes last_seen.
func (s *DeviceServiceImpl) UpdateTelemetry(ctx context.Context, req primary.DeviceTelemetryRequest) error {
	if req.BatteryPercent < 0 || req.BatteryPercent > 100 {
		return fmt.Errorf("%w: battery percent out of range: %d", secondary.ErrValidation, req.BatteryPercent)
	}
	if req.StoragePercent < 0 || req.StoragePercent > 100 {
		return fmt.Errorf("%w: storage percent out of range: %d", secondary.ErrValidation, req.StoragePercent)
	}

	return s.deviceRepo.UpdateTelemetry(ctx, secondary.DeviceTelemetry{
		DeviceID:       req.DeviceID,
		BatteryPercent: req.BatteryPercent,
		StoragePercent: req.StoragePercent,
		GPSEnabled:     req.GPSEnabled,
	})
}

// SetStatus writes a device status with an audited reason. Devices are
// passive records; any status value from the enum is accepted.
func (s *DeviceServiceImpl) SetStatus(ctx context.Context, req primary.SetDeviceStatusRequest) (*primary.Device, error) {
	switch req.Status {
	case primary.DeviceStatusOnline, primary.DeviceStatusOffline,
		primary.DeviceStatusDegraded, primary.DeviceStatusMaintenance:
	default:
		return nil, fmt.Errorf("%w: invalid device status: %s", secondary.ErrValidation, req.Status)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.deviceRepo.SetStatus(ctx, req.DeviceID, req.Status, actor, req.Reason); err != nil {
		return nil, err
	}

	updated, err := s.deviceRepo.GetByID(ctx, req.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated device: %w", err)
	}
	return s.recordToDevice(updated), nil
}

func (s *DeviceServiceImpl) recordToDevice(r *secondary.DeviceRecord) *primary.Device {
	return &primary.Device{
		ID:             r.ID,
		Name:           r.Name,
		Location:       r.Location,
		IPAddress:      r.IPAddress,
		Status:         r.Status,
		BatteryPercent: r.BatteryPercent,
		StoragePercent: r.StoragePercent,
		GPSEnabled:     r.GPSEnabled,
		LastSeenAt:     r.LastSeenAt,
		CreatedAt:      r.CreatedAt,
	}
}

// Ensure DeviceServiceImpl implements the interface
var _ primary.DeviceService = (*DeviceServiceImpl)(nil)
