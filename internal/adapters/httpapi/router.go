package httpapi

import (
	"net/http"

	"github.com/example/vreg/internal/metrics"
	"github.com/example/vreg/internal/ports/primary"
)

// Services bundles the primary ports the router exposes.
type Services struct {
	Matches      primary.MatchService
	Exceptions   primary.ExceptionService
	WorkOrders   primary.WorkOrderService
	Devices      primary.DeviceService
	SecurityKeys primary.SecurityKeyService
	Audit        primary.AuditService
}

// NewRouter wires all handlers onto a ServeMux. metricsManager may be nil.
func NewRouter(services Services, metricsManager *metrics.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	matchHandler := NewMatchHandler(services.Matches)
	exceptionHandler := NewExceptionHandler(services.Exceptions)
	workOrderHandler := NewWorkOrderHandler(services.WorkOrders)
	deviceHandler := NewDeviceHandler(services.Devices)
	keyHandler := NewSecurityKeyHandler(services.SecurityKeys)
	auditHandler := NewAuditHandler(services.Audit)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, WithLogging(metricsManager, pattern, WithActor(h)))
	}

	// Health and metrics
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if metricsManager != nil {
		mux.Handle("GET /metrics", metricsManager.Handler())
	}

	// Dedup match review
	handle("GET /matches", matchHandler.List)
	handle("GET /matches/{id}", matchHandler.Get)
	handle("POST /matches/{id}/review", matchHandler.Review)
	handle("POST /matches/{id}/flag-exception", matchHandler.FlagException)

	// Exception rulings
	handle("GET /exceptions", exceptionHandler.List)
	handle("GET /exceptions/{id}", exceptionHandler.Get)
	handle("POST /exceptions/{id}/claim", exceptionHandler.Claim)
	handle("POST /exceptions/{id}/review", exceptionHandler.Review)
	handle("POST /exceptions/{id}/escalate", exceptionHandler.Escalate)

	// Maintenance work orders
	handle("POST /work-orders", workOrderHandler.Create)
	handle("GET /work-orders", workOrderHandler.List)
	handle("GET /work-orders/{id}", workOrderHandler.Get)
	handle("POST /work-orders/{id}/status", workOrderHandler.UpdateStatus)
	handle("POST /work-orders/{id}/notes", workOrderHandler.AddNote)
	handle("GET /work-orders/{id}/notes", workOrderHandler.ListNotes)

	// Device fleet
	handle("POST /devices", deviceHandler.Register)
	handle("GET /devices", deviceHandler.List)
	handle("GET /devices/{id}", deviceHandler.Get)
	handle("POST /devices/{id}/telemetry", deviceHandler.Telemetry)
	handle("POST /devices/{id}/status", deviceHandler.SetStatus)

	// Security key inventory
	handle("POST /keys", keyHandler.Add)
	handle("GET /keys", keyHandler.List)
	handle("GET /keys/{id}", keyHandler.Get)
	handle("POST /keys/{id}/assign", keyHandler.Assign)
	handle("POST /keys/{id}/return", keyHandler.Return)
	handle("POST /keys/{id}/revoke", keyHandler.Revoke)
	handle("POST /keys/{id}/lost", keyHandler.MarkLost)

	// Audit trail
	handle("GET /audit", auditHandler.List)
	handle("GET /audit/{entityType}/{entityID}", auditHandler.EntityHistory)

	return mux
}
