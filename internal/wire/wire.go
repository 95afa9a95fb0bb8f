// Package wire provides dependency injection for the application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	cliadapter "github.com/example/vreg/internal/adapters/cli"
	"github.com/example/vreg/internal/adapters/httpapi"
	"github.com/example/vreg/internal/adapters/sqlite"
	"github.com/example/vreg/internal/app"
	"github.com/example/vreg/internal/config"
	"github.com/example/vreg/internal/db"
	"github.com/example/vreg/internal/metrics"
	"github.com/example/vreg/internal/notify"
	"github.com/example/vreg/internal/ports/primary"
)

var (
	cfg                *config.Config
	matchService       primary.MatchService
	exceptionService   primary.ExceptionService
	workOrderService   primary.WorkOrderService
	deviceService      primary.DeviceService
	securityKeyService primary.SecurityKeyService
	auditService       primary.AuditService
	metricsManager     *metrics.Manager
	once               sync.Once
)

// Config returns the loaded process configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// MatchService returns the singleton MatchService instance.
func MatchService() primary.MatchService {
	once.Do(initServices)
	return matchService
}

// ExceptionService returns the singleton ExceptionService instance.
func ExceptionService() primary.ExceptionService {
	once.Do(initServices)
	return exceptionService
}

// WorkOrderService returns the singleton WorkOrderService instance.
func WorkOrderService() primary.WorkOrderService {
	once.Do(initServices)
	return workOrderService
}

// DeviceService returns the singleton DeviceService instance.
func DeviceService() primary.DeviceService {
	once.Do(initServices)
	return deviceService
}

// SecurityKeyService returns the singleton SecurityKeyService instance.
func SecurityKeyService() primary.SecurityKeyService {
	once.Do(initServices)
	return securityKeyService
}

// AuditService returns the singleton AuditService instance.
func AuditService() primary.AuditService {
	once.Do(initServices)
	return auditService
}

// MetricsManager returns the shared metrics manager.
func MetricsManager() *metrics.Manager {
	once.Do(initServices)
	return metricsManager
}

// HTTPServices bundles the singletons for the HTTP router.
func HTTPServices() httpapi.Services {
	once.Do(initServices)
	return httpapi.Services{
		Matches:      matchService,
		Exceptions:   exceptionService,
		WorkOrders:   workOrderService,
		Devices:      deviceService,
		SecurityKeys: securityKeyService,
		Audit:        auditService,
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports)
	matchRepo := sqlite.NewMatchRepository(database)
	exceptionRepo := sqlite.NewExceptionRepository(database)
	workOrderRepo := sqlite.NewWorkOrderRepository(database)
	deviceRepo := sqlite.NewDeviceRepository(database)
	keyRepo := sqlite.NewSecurityKeyRepository(database)
	auditRepo := sqlite.NewAuditLogRepository(database)
	notificationRepo := sqlite.NewNotificationRepository(database)

	metricsManager = metrics.NewManager()
	dispatcher := notify.NewDispatcher(notificationRepo, auditRepo, notify.LogSender{}, nil).
		WithMetrics(metricsManager)

	// Services (primary port implementations)
	matchService = app.NewMatchService(matchRepo, exceptionRepo, dispatcher).
		WithMetrics(metricsManager)
	exceptionService = app.NewExceptionService(exceptionRepo, dispatcher).
		WithMetrics(metricsManager)
	workOrderService = app.NewWorkOrderService(workOrderRepo, deviceRepo, cfg.FlipDeviceMaintenance)
	deviceService = app.NewDeviceService(deviceRepo)
	securityKeyService = app.NewSecurityKeyService(keyRepo)
	auditService = app.NewAuditService(auditRepo)
}

// MatchAdapter returns a new MatchAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MatchAdapter() *cliadapter.MatchAdapter {
	return MatchAdapterWithOutput(os.Stdout)
}

// MatchAdapterWithOutput returns a new MatchAdapter writing to the given output.
func MatchAdapterWithOutput(out io.Writer) *cliadapter.MatchAdapter {
	once.Do(initServices)
	return cliadapter.NewMatchAdapter(matchService, out)
}

// ExceptionAdapter returns a new ExceptionAdapter writing to stdout.
func ExceptionAdapter() *cliadapter.ExceptionAdapter {
	once.Do(initServices)
	return cliadapter.NewExceptionAdapter(exceptionService, os.Stdout)
}

// WorkOrderAdapter returns a new WorkOrderAdapter writing to stdout.
func WorkOrderAdapter() *cliadapter.WorkOrderAdapter {
	once.Do(initServices)
	return cliadapter.NewWorkOrderAdapter(workOrderService, os.Stdout)
}

// DeviceAdapter returns a new DeviceAdapter writing to stdout.
func DeviceAdapter() *cliadapter.DeviceAdapter {
	once.Do(initServices)
	return cliadapter.NewDeviceAdapter(deviceService, os.Stdout)
}

// SecurityKeyAdapter returns a new SecurityKeyAdapter writing to stdout.
func SecurityKeyAdapter() *cliadapter.SecurityKeyAdapter {
	once.Do(initServices)
	return cliadapter.NewSecurityKeyAdapter(securityKeyService, os.Stdout)
}

// AuditAdapter returns a new AuditAdapter writing to stdout.
func AuditAdapter() *cliadapter.AuditAdapter {
	once.Do(initServices)
	return cliadapter.NewAuditAdapter(auditService, os.Stdout)
}
