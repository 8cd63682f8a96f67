// internal/services/authorization_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/storeapp/store-backend/internal/models"
)

func TestProductDecision(t *testing.T) {
	ownerID := uuid.New()
	product := &models.Product{OwnerID: &ownerID}

	owner := &Principal{ID: ownerID}
	staff := &Principal{ID: uuid.New(), IsStaff: true}
	stranger := &Principal{ID: uuid.New()}

	// Reads are open to everyone, authenticated or not.
	assert.Equal(t, DecisionAllow, ProductDecision(nil, product, ActionRead))
	assert.Equal(t, DecisionAllow, ProductDecision(stranger, product, ActionRead))

	// Writes require the owner or staff.
	assert.Equal(t, DecisionAllow, ProductDecision(owner, product, ActionWrite))
	assert.Equal(t, DecisionAllow, ProductDecision(staff, product, ActionWrite))
	assert.Equal(t, DecisionDeny, ProductDecision(stranger, product, ActionWrite))
	assert.Equal(t, DecisionDeny, ProductDecision(nil, product, ActionWrite))
}

func TestProductDecisionWithoutOwner(t *testing.T) {
	product := &models.Product{}
	stranger := &Principal{ID: uuid.New()}
	staff := &Principal{ID: uuid.New(), IsStaff: true}

	assert.Equal(t, DecisionDeny, ProductDecision(stranger, product, ActionWrite))
	assert.Equal(t, DecisionAllow, ProductDecision(staff, product, ActionWrite))
}

func TestBasketDecisionObscuresExistence(t *testing.T) {
	ownerID := uuid.New()
	line := &models.Basket{UserID: ownerID}

	owner := &Principal{ID: ownerID}
	staff := &Principal{ID: uuid.New(), IsStaff: true}
	stranger := &Principal{ID: uuid.New()}

	assert.Equal(t, DecisionAllow, BasketDecision(owner, line, ActionRead))
	assert.Equal(t, DecisionAllow, BasketDecision(staff, line, ActionRead))

	// A foreign line must look like it does not exist at all.
	assert.Equal(t, DecisionNotFound, BasketDecision(stranger, line, ActionRead))
	assert.Equal(t, DecisionNotFound, BasketDecision(stranger, line, ActionWrite))
	assert.Equal(t, DecisionNotFound, BasketDecision(nil, line, ActionRead))
}

func TestOrderDecisionObscuresExistence(t *testing.T) {
	initiatorID := uuid.New()
	order := &models.Order{InitiatorID: initiatorID}

	initiator := &Principal{ID: initiatorID}
	staff := &Principal{ID: uuid.New(), IsStaff: true}
	stranger := &Principal{ID: uuid.New()}

	assert.Equal(t, DecisionAllow, OrderDecision(initiator, order, ActionWrite))
	assert.Equal(t, DecisionAllow, OrderDecision(staff, order, ActionRead))
	assert.Equal(t, DecisionNotFound, OrderDecision(stranger, order, ActionRead))
	assert.Equal(t, DecisionNotFound, OrderDecision(nil, order, ActionRead))
}

func TestVerificationDecision(t *testing.T) {
	ownerID := uuid.New()
	record := &models.EmailVerification{UserID: ownerID}

	assert.Equal(t, DecisionAllow, VerificationDecision(&Principal{ID: ownerID}, record, ActionWrite))
	assert.Equal(t, DecisionAllow, VerificationDecision(&Principal{ID: uuid.New(), IsStaff: true}, record, ActionRead))
	assert.Equal(t, DecisionNotFound, VerificationDecision(&Principal{ID: uuid.New()}, record, ActionRead))
	assert.Equal(t, DecisionNotFound, VerificationDecision(nil, record, ActionRead))
}

func TestCanListUsers(t *testing.T) {
	assert.True(t, CanListUsers(&Principal{ID: uuid.New(), IsStaff: true}))
	assert.False(t, CanListUsers(&Principal{ID: uuid.New()}))
	assert.False(t, CanListUsers(nil))
}

func TestResolveUserID(t *testing.T) {
	selfID := uuid.New()
	otherID := uuid.New()

	// Non-staff always land on their own profile.
	assert.Equal(t, selfID, ResolveUserID(&Principal{ID: selfID}, otherID))
	assert.Equal(t, selfID, ResolveUserID(&Principal{ID: selfID}, selfID))

	// Staff get whoever they asked for.
	assert.Equal(t, otherID, ResolveUserID(&Principal{ID: selfID, IsStaff: true}, otherID))
}
