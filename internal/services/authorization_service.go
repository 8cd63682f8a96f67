// internal/services/authorization_service.go
package services

import (
	"github.com/google/uuid"

	"github.com/storeapp/store-backend/internal/models"
)

// Principal is the resolved identity of a request. A nil *Principal
// means the request carried no credentials. It is passed explicitly
// through every call boundary; nothing reads ambient request state.
type Principal struct {
	ID       uuid.UUID
	Username string
	IsStaff  bool
}

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Decision is the outcome of an object-level authorization check.
// DecisionNotFound hides the existence of another user's resource: the
// caller must surface it exactly like a missing row.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionDeny
	DecisionNotFound
)

// ProductDecision gates access to a catalog product. Reads are open;
// writes require the product's owner or a staff principal.
func ProductDecision(p *Principal, product *models.Product, action Action) Decision {
	if action == ActionRead {
		return DecisionAllow
	}
	if p == nil {
		return DecisionDeny
	}
	if p.IsStaff {
		return DecisionAllow
	}
	if product.OwnerID != nil && *product.OwnerID == p.ID {
		return DecisionAllow
	}
	return DecisionDeny
}

// BasketDecision gates a basket line. Every operation, reads included,
// is restricted to the owning user or staff; everyone else gets a
// not-found so the line's existence does not leak.
func BasketDecision(p *Principal, line *models.Basket, _ Action) Decision {
	if p == nil {
		return DecisionNotFound
	}
	if p.IsStaff || line.UserID == p.ID {
		return DecisionAllow
	}
	return DecisionNotFound
}

// OrderDecision gates an order the same way as a basket line: initiator
// or staff, with existence obscured for anyone else.
func OrderDecision(p *Principal, order *models.Order, _ Action) Decision {
	if p == nil {
		return DecisionNotFound
	}
	if p.IsStaff || order.InitiatorID == p.ID {
		return DecisionAllow
	}
	return DecisionNotFound
}

// VerificationDecision gates an email verification record: owner or
// staff, obscured otherwise.
func VerificationDecision(p *Principal, v *models.EmailVerification, _ Action) Decision {
	if p == nil {
		return DecisionNotFound
	}
	if p.IsStaff || v.UserID == p.ID {
		return DecisionAllow
	}
	return DecisionNotFound
}

// CanListUsers: listing all accounts is staff-only.
func CanListUsers(p *Principal) bool {
	return p != nil && p.IsStaff
}

// ResolveUserID implements the self-view override: a non-staff
// principal asking for any user id is redirected to their own profile;
// staff may fetch any id.
func ResolveUserID(p *Principal, requested uuid.UUID) uuid.UUID {
	if p != nil && !p.IsStaff {
		return p.ID
	}
	return requested
}
