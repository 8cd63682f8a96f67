// internal/tests/store_flow_test.go
package tests

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storeapp/store-backend/internal/config"
	"github.com/storeapp/store-backend/internal/database"
	"github.com/storeapp/store-backend/internal/models"
	"github.com/storeapp/store-backend/internal/services"
)

// StoreFlowTestSuite exercises the basket and checkout flows against a
// real database. Set TEST_DB_DSN to run it, e.g.
//
//	TEST_DB_DSN="host=localhost user=postgres dbname=store_test sslmode=disable" go test ./internal/tests/
type StoreFlowTestSuite struct {
	suite.Suite
	db *gorm.DB

	baskets       *services.BasketService
	orders        *services.OrderService
	products      *services.ProductService
	verifications *services.VerificationService

	staff    *services.Principal
	category models.ProductCategory
}

func (s *StoreFlowTestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		s.T().Skip("TEST_DB_DSN not set, skipping database tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(db))
	s.db = db

	cfg := &config.Config{
		Verification: config.VerificationConfig{TTLHours: 1},
	}
	notifications := services.NewNotificationService(cfg)

	s.baskets = services.NewBasketService(db)
	s.orders = services.NewOrderService(db, notifications)
	s.products = services.NewProductService(db)
	s.verifications = services.NewVerificationService(db, cfg, notifications)

	staffUser := s.createUser(true)
	s.staff = &services.Principal{ID: staffUser.ID, Username: staffUser.Username, IsStaff: true}

	s.category = models.ProductCategory{Name: "Test " + uuid.NewString()[:8]}
	s.Require().NoError(db.Create(&s.category).Error)
}

func (s *StoreFlowTestSuite) createUser(isStaff bool) *models.User {
	user := &models.User{
		Username: "u_" + uuid.NewString()[:12],
		Email:    uuid.NewString()[:12] + "@test.example.com",
		IsStaff:  isStaff,
	}
	s.Require().NoError(user.SetPassword("Passw0rd!"))
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *StoreFlowTestSuite) createPrincipal() *services.Principal {
	user := s.createUser(false)
	return &services.Principal{ID: user.ID, Username: user.Username}
}

func (s *StoreFlowTestSuite) createProduct(price float64) *models.Product {
	product, err := s.products.Create(s.staff, &services.CreateProductRequest{
		Name:       "Widget " + uuid.NewString()[:8],
		Price:      price,
		Quantity:   100,
		CategoryID: s.category.ID,
	})
	s.Require().NoError(err)
	return product
}

func (s *StoreFlowTestSuite) shippingRequest() *services.CreateOrderRequest {
	return &services.CreateOrderRequest{
		FirstName: "Test",
		LastName:  "Buyer",
		Email:     "buyer@test.example.com",
		Address:   "1 Test Street",
	}
}

func (s *StoreFlowTestSuite) TestAddOrMergeIncrementsExistingLine() {
	buyer := s.createPrincipal()
	product := s.createProduct(10)

	first, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	s.Equal(1, first.Quantity)

	second, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(2, second.Quantity)

	page, err := s.baskets.List(buyer)
	s.Require().NoError(err)
	s.Len(page.Items, 1)
	s.InDelta(20, page.Totals.TotalSum, 0.001)
	s.Equal(2, page.Totals.TotalQuantity)
}

func (s *StoreFlowTestSuite) TestConcurrentFirstAddsMergeIntoOneLine() {
	buyer := s.createPrincipal()
	product := s.createProduct(10)

	// Both adds miss the existing-line lookup; the upsert against the
	// open-line unique index must merge them instead of failing one.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
		}(i)
	}
	wg.Wait()

	s.NoError(errs[0])
	s.NoError(errs[1])

	page, err := s.baskets.List(buyer)
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal(2, page.Items[0].Quantity)
}

func (s *StoreFlowTestSuite) TestAddUnknownProduct() {
	buyer := s.createPrincipal()
	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: uuid.New()})
	s.ErrorIs(err, services.ErrNotFound)
}

func (s *StoreFlowTestSuite) TestBasketQuantityMustBePositive() {
	buyer := s.createPrincipal()
	product := s.createProduct(5)

	line, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)

	_, err = s.baskets.Update(buyer, line.ID, &services.UpdateBasketItemRequest{Quantity: 0})
	s.ErrorIs(err, services.ErrValidation)

	_, err = s.baskets.Update(buyer, line.ID, &services.UpdateBasketItemRequest{Quantity: -3})
	s.ErrorIs(err, services.ErrValidation)
}

func (s *StoreFlowTestSuite) TestForeignBasketLineLooksMissing() {
	owner := s.createPrincipal()
	stranger := s.createPrincipal()
	product := s.createProduct(5)

	line, err := s.baskets.AddOrMerge(owner, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)

	_, err = s.baskets.Get(stranger, line.ID)
	s.ErrorIs(err, services.ErrNotFound)

	_, err = s.baskets.Update(stranger, line.ID, &services.UpdateBasketItemRequest{Quantity: 5})
	s.ErrorIs(err, services.ErrNotFound)

	s.ErrorIs(s.baskets.Remove(stranger, line.ID), services.ErrNotFound)
}

func (s *StoreFlowTestSuite) TestCheckoutDrainsBasketAndCapturesPrices() {
	buyer := s.createPrincipal()
	product := s.createProduct(30)

	line, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	_, err = s.baskets.Update(buyer, line.ID, &services.UpdateBasketItemRequest{Quantity: 2})
	s.Require().NoError(err)

	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCreated, order.Status)
	s.Require().Len(order.Items, 1)
	s.InDelta(30, order.Items[0].Price, 0.001)
	s.Equal(2, order.Items[0].Quantity)

	// The open basket is empty and the consumed line is frozen.
	page, err := s.baskets.List(buyer)
	s.Require().NoError(err)
	s.Empty(page.Items)

	_, err = s.baskets.Update(buyer, line.ID, &services.UpdateBasketItemRequest{Quantity: 9})
	s.ErrorIs(err, services.ErrConflict)
	s.ErrorIs(s.baskets.Remove(buyer, line.ID), services.ErrConflict)
}

func (s *StoreFlowTestSuite) TestEmptyBasketCannotBeOrdered() {
	buyer := s.createPrincipal()
	_, err := s.orders.Create(buyer, s.shippingRequest())
	s.ErrorIs(err, services.ErrValidation)
}

func (s *StoreFlowTestSuite) TestPayFreezesSnapshot() {
	buyer := s.createPrincipal()
	product := s.createProduct(50)

	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)

	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)

	paid, err := s.orders.Pay(buyer, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusPaid, paid.Status)
	s.InDelta(50, models.SnapshotTotal(paid.BasketHistory), 0.001)

	// A catalog price change after payment never touches the snapshot.
	newPrice := 75.0
	_, err = s.products.Update(s.staff, product.ID, &services.UpdateProductRequest{Price: &newPrice})
	s.Require().NoError(err)

	reloaded, err := s.orders.Get(buyer, order.ID)
	s.Require().NoError(err)
	s.InDelta(50, models.SnapshotTotal(reloaded.BasketHistory), 0.001)

	// Paying twice is a conflict.
	_, err = s.orders.Pay(buyer, order.ID)
	s.ErrorIs(err, services.ErrConflict)
}

func (s *StoreFlowTestSuite) TestConcurrentPayHasSingleWinner() {
	buyer := s.createPrincipal()
	product := s.createProduct(25)

	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)

	// The row lock serializes the two payments; the loser sees PAID.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.orders.Pay(buyer, order.ID)
		}(i)
	}
	wg.Wait()

	conflicts := 0
	for _, err := range errs {
		if err != nil {
			s.ErrorIs(err, services.ErrConflict)
			conflicts++
		}
	}
	s.Equal(1, conflicts)

	reloaded, err := s.orders.Get(buyer, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusPaid, reloaded.Status)
	s.InDelta(25, models.SnapshotTotal(reloaded.BasketHistory), 0.001)
}

func (s *StoreFlowTestSuite) TestShippingEditableOnlyBeforePayment() {
	buyer := s.createPrincipal()
	product := s.createProduct(15)

	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)

	updated, err := s.orders.Update(buyer, order.ID, &services.UpdateOrderRequest{Address: "2 New Street"})
	s.Require().NoError(err)
	s.Equal("2 New Street", updated.Address)

	_, err = s.orders.Pay(buyer, order.ID)
	s.Require().NoError(err)

	_, err = s.orders.Update(buyer, order.ID, &services.UpdateOrderRequest{Address: "3 Late Street"})
	s.ErrorIs(err, services.ErrConflict)

	reloaded, err := s.orders.Get(buyer, order.ID)
	s.Require().NoError(err)
	s.Equal("2 New Street", reloaded.Address)
}

func (s *StoreFlowTestSuite) TestCancelOnlyFromCreated() {
	buyer := s.createPrincipal()
	product := s.createProduct(10)

	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)

	canceled, err := s.orders.Cancel(buyer, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCanceled, canceled.Status)

	// Terminal: neither pay nor cancel works anymore.
	_, err = s.orders.Pay(buyer, order.ID)
	s.ErrorIs(err, services.ErrConflict)
	_, err = s.orders.Cancel(buyer, order.ID)
	s.ErrorIs(err, services.ErrConflict)
}

func (s *StoreFlowTestSuite) TestStaffFulfillmentTransitions() {
	buyer := s.createPrincipal()
	product := s.createProduct(10)

	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)
	_, err = s.orders.Pay(buyer, order.ID)
	s.Require().NoError(err)

	// Buyers cannot drive fulfillment.
	_, err = s.orders.AdvanceStatus(buyer, order.ID, &services.AdvanceStatusRequest{Status: models.OrderStatusOnWay})
	s.ErrorIs(err, services.ErrForbidden)

	// Jumping straight to DELIVERED is not a legal transition.
	_, err = s.orders.AdvanceStatus(s.staff, order.ID, &services.AdvanceStatusRequest{Status: models.OrderStatusDelivered})
	s.ErrorIs(err, services.ErrConflict)

	onWay, err := s.orders.AdvanceStatus(s.staff, order.ID, &services.AdvanceStatusRequest{Status: models.OrderStatusOnWay})
	s.Require().NoError(err)
	s.Equal(models.OrderStatusOnWay, onWay.Status)

	delivered, err := s.orders.AdvanceStatus(s.staff, order.ID, &services.AdvanceStatusRequest{Status: models.OrderStatusDelivered})
	s.Require().NoError(err)
	s.Equal(models.OrderStatusDelivered, delivered.Status)
}

func (s *StoreFlowTestSuite) TestForeignOrderLooksMissing() {
	buyer := s.createPrincipal()
	stranger := s.createPrincipal()
	product := s.createProduct(10)

	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)

	_, err = s.orders.Get(stranger, order.ID)
	s.ErrorIs(err, services.ErrNotFound)
	_, err = s.orders.Pay(stranger, order.ID)
	s.ErrorIs(err, services.ErrNotFound)
}

func (s *StoreFlowTestSuite) TestOrderStatsUseFrozenTotals() {
	buyer := s.createPrincipal()
	product := s.createProduct(40)

	_, err := s.baskets.AddOrMerge(buyer, &services.AddBasketItemRequest{ProductID: product.ID})
	s.Require().NoError(err)
	order, err := s.orders.Create(buyer, s.shippingRequest())
	s.Require().NoError(err)
	_, err = s.orders.Pay(buyer, order.ID)
	s.Require().NoError(err)

	newPrice := 90.0
	_, err = s.products.Update(s.staff, product.ID, &services.UpdateProductRequest{Price: &newPrice})
	s.Require().NoError(err)

	stats, err := s.orders.Stats(buyer)
	s.Require().NoError(err)
	s.Equal(int64(1), stats.TotalOrders)
	s.InDelta(40, stats.TotalSpent, 0.001)
	s.Equal(int64(0), stats.PendingOrders)
}

func (s *StoreFlowTestSuite) TestVerificationLifecycle() {
	user := s.createUser(false)
	principal := &services.Principal{ID: user.ID, Username: user.Username}

	var record *models.EmailVerification
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.verifications.IssueTx(tx, user)
		return err
	})
	s.Require().NoError(err)
	s.Equal(models.VerificationStatusPending, record.Status)

	verified, err := s.verifications.Verify(principal, record.ID)
	s.Require().NoError(err)
	s.Equal(models.VerificationStatusVerified, verified.Status)

	var reloaded models.User
	s.Require().NoError(s.db.First(&reloaded, "id = ?", user.ID).Error)
	s.True(reloaded.IsVerifiedEmail)

	// Verifying again is a conflict, not an error of any other kind.
	_, err = s.verifications.Verify(principal, record.ID)
	s.ErrorIs(err, services.ErrConflict)
}

func (s *StoreFlowTestSuite) TestExpiredVerificationIsRejectedAndMarked() {
	user := s.createUser(false)
	principal := &services.Principal{ID: user.ID, Username: user.Username}

	record := &models.EmailVerification{
		Code:       uuid.New(),
		UserID:     user.ID,
		Expiration: time.Now().Add(-time.Minute),
		Status:     models.VerificationStatusPending,
	}
	s.Require().NoError(s.db.Create(record).Error)

	_, err := s.verifications.Verify(principal, record.ID)
	s.ErrorIs(err, services.ErrConflict)

	// The lazy expiry transition sticks even though verify failed.
	var reloaded models.EmailVerification
	s.Require().NoError(s.db.First(&reloaded, "id = ?", record.ID).Error)
	s.Equal(models.VerificationStatusExpired, reloaded.Status)

	var owner models.User
	s.Require().NoError(s.db.First(&owner, "id = ?", user.ID).Error)
	s.False(owner.IsVerifiedEmail)
}

func (s *StoreFlowTestSuite) TestExpireStaleSweep() {
	user := s.createUser(false)

	stale := &models.EmailVerification{
		Code:       uuid.New(),
		UserID:     user.ID,
		Expiration: time.Now().Add(-time.Hour),
		Status:     models.VerificationStatusPending,
	}
	fresh := &models.EmailVerification{
		Code:       uuid.New(),
		UserID:     user.ID,
		Expiration: time.Now().Add(time.Hour),
		Status:     models.VerificationStatusPending,
	}
	s.Require().NoError(s.db.Create(stale).Error)
	s.Require().NoError(s.db.Create(fresh).Error)

	count, err := s.verifications.ExpireStale(time.Now())
	s.Require().NoError(err)
	s.GreaterOrEqual(count, int64(1))

	var reloadedStale, reloadedFresh models.EmailVerification
	s.Require().NoError(s.db.First(&reloadedStale, "id = ?", stale.ID).Error)
	s.Require().NoError(s.db.First(&reloadedFresh, "id = ?", fresh.ID).Error)
	s.Equal(models.VerificationStatusExpired, reloadedStale.Status)
	s.Equal(models.VerificationStatusPending, reloadedFresh.Status)
}

func (s *StoreFlowTestSuite) TestProductQuantityZeroDeactivates() {
	product := s.createProduct(10)

	zero := 0
	updated, err := s.products.Update(s.staff, product.ID, &services.UpdateProductRequest{Quantity: &zero})
	s.Require().NoError(err)
	s.False(updated.IsActive)
}

func (s *StoreFlowTestSuite) TestProductPriceMustBePositive() {
	product := s.createProduct(10)

	bad := -1.0
	_, err := s.products.Update(s.staff, product.ID, &services.UpdateProductRequest{Price: &bad})
	s.ErrorIs(err, services.ErrValidation)

	zero := 0.0
	_, err = s.products.Update(s.staff, product.ID, &services.UpdateProductRequest{Price: &zero})
	s.ErrorIs(err, services.ErrValidation)

	_, err = s.products.Create(s.staff, &services.CreateProductRequest{
		Name:       fmt.Sprintf("Bad %s", uuid.NewString()[:8]),
		Price:      0,
		CategoryID: s.category.ID,
	})
	s.ErrorIs(err, services.ErrValidation)
}

func TestStoreFlowSuite(t *testing.T) {
	suite.Run(t, new(StoreFlowTestSuite))
}
