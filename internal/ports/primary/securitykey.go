package primary

import "context"

// SecurityKeyService defines the primary port for the hardware key inventory.
type SecurityKeyService interface {
	// AddKey registers a new key in stock.
	AddKey(ctx context.Context, req AddKeyRequest) (*SecurityKey, error)

	// GetKey retrieves a key by ID.
	GetKey(ctx context.Context, keyID string) (*SecurityKey, error)

	// ListKeys lists keys with optional filters.
	ListKeys(ctx context.Context, filters SecurityKeyFilters) ([]*SecurityKey, error)

	// AssignKey issues an in-stock key to a person.
	AssignKey(ctx context.Context, req AssignKeyRequest) (*SecurityKey, error)

	// ReturnKey takes an assigned key back into stock.
	ReturnKey(ctx context.Context, keyID string) (*SecurityKey, error)

	// RevokeKey permanently revokes an assigned key.
	RevokeKey(ctx context.Context, keyID, reason string) (*SecurityKey, error)

	// MarkLost permanently marks a key as lost.
	MarkLost(ctx context.Context, keyID, reason string) (*SecurityKey, error)
}

// AddKeyRequest contains parameters for registering a key.
type AddKeyRequest struct {
	Serial string
	Kind   string // fido2, piv, otp
}

// AssignKeyRequest contains parameters for issuing a key.
type AssignKeyRequest struct {
	KeyID      string
	AssignedTo string
}

// SecurityKey represents an inventory key at the port boundary.
type SecurityKey struct {
	ID         string
	Serial     string
	Kind       string
	Status     string
	AssignedTo string
	CreatedAt  string
	UpdatedAt  string
}

// SecurityKeyFilters contains filter options for listing keys.
type SecurityKeyFilters struct {
	Status string
	Kind   string
	Search string
	Limit  int
}
