package service

import (
	"fmt"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// DenyRecorder is notified of every denied ownership check.
type DenyRecorder interface {
	OwnershipDenied(resource string)
}

// OwnershipGuard enforces that a caller only touches resources they own.
type OwnershipGuard struct {
	recorder DenyRecorder
}

// NewOwnershipGuard creates a guard. recorder may be nil.
func NewOwnershipGuard(recorder DenyRecorder) *OwnershipGuard {
	return &OwnershipGuard{recorder: recorder}
}

// Authorize allows the request only when the identity owns the resource.
func (g *OwnershipGuard) Authorize(identity domain.Identity, ownerID int64) Decision {
	if identity.ID > 0 && identity.ID == ownerID {
		return Allow
	}
	return Deny
}

// Require returns domain.ErrNotFound on Deny, so a foreign resource is
// indistinguishable from a missing one.
func (g *OwnershipGuard) Require(identity domain.Identity, ownerID int64, resource string) error {
	if g.Authorize(identity, ownerID) == Allow {
		return nil
	}
	if g.recorder != nil {
		g.recorder.OwnershipDenied(resource)
	}
	return fmt.Errorf("%s: %w", resource, domain.ErrNotFound)
}
