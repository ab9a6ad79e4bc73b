package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/mocks"
	"github.com/example/bazaar/internal/models"
)

func newOrderService() (*OrderService, *mocks.MockOrderStore, *mocks.MockProductStore, *mocks.MockCartStore) {
	orders := new(mocks.MockOrderStore)
	products := new(mocks.MockProductStore)
	cart := new(mocks.MockCartStore)
	return NewOrderService(orders, products, cart), orders, products, cart
}

func testProduct(price float64) *models.Product {
	p := &models.Product{
		Price:      price,
		SellerID:   uuid.New(),
		SellerName: "Test Seller",
		StoreName:  "Test Store",
	}
	p.ID = uuid.New()
	return p
}

func TestCheckoutExplicitItems(t *testing.T) {
	svc, orders, products, _ := newOrderService()
	userID := uuid.New()
	p1 := testProduct(100)
	p2 := testProduct(50)

	products.On("ByID", p1.ID).Return(p1, nil)
	products.On("ByID", p2.ID).Return(p2, nil)
	orders.On("OrderIDTaken", mock.AnythingOfType("string")).Return(false, nil)
	orders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.Checkout(userID, []LineItemRequest{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 1},
	}, "", ShippingAddress{Line: "12 Market St", City: "Tashkent"})
	require.NoError(t, err)

	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.DeliveryProcessing, order.DeliveryStatus)
	assert.Equal(t, "12 Market St", order.ShippingLine)
	assert.Regexp(t, `^OD\d{18}$`, order.OrderID)

	base := BaseFromOrderID(order.OrderID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, base, order.Items[0].ItemID)
	assert.Equal(t, DeriveItemID(base, 1), order.Items[1].ItemID)
	assert.Equal(t, models.ItemProcessing, order.Items[0].Status)
	assert.Equal(t, p1.SellerName, order.Items[0].SellerName)
	assert.Equal(t, 100.0, order.Items[0].Price)

	orders.AssertCalled(t, "Create", mock.Anything)
}

func TestCheckoutSkipsUnresolvableItems(t *testing.T) {
	svc, orders, products, _ := newOrderService()
	p1 := testProduct(80)
	gone := uuid.New()

	products.On("ByID", p1.ID).Return(p1, nil)
	products.On("ByID", gone).Return(nil, apperr.NotFound("product not found"))
	orders.On("OrderIDTaken", mock.AnythingOfType("string")).Return(false, nil)
	orders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.Checkout(uuid.New(), []LineItemRequest{
		{ProductID: gone, Quantity: 1},
		{ProductID: p1.ID, Quantity: 3},
		{ProductID: p1.ID, Quantity: 0},
	}, "", ShippingAddress{})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 240.0, order.TotalAmount)
}

func TestCheckoutEmptyOrder(t *testing.T) {
	svc, orders, _, cart := newOrderService()
	userID := uuid.New()

	cart.On("ItemsByUser", userID).Return([]models.CartItem{}, nil)

	_, err := svc.Checkout(userID, nil, "", ShippingAddress{})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	orders.AssertNotCalled(t, "Create", mock.Anything)
	cart.AssertNotCalled(t, "Clear", mock.Anything)
}

func TestCheckoutFromCart(t *testing.T) {
	svc, orders, products, cart := newOrderService()
	userID := uuid.New()
	product := testProduct(120) // live price moved since the add

	cartItem := models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 2, Price: 90}
	cart.On("ItemsByUser", userID).Return([]models.CartItem{cartItem}, nil)
	products.On("ByID", product.ID).Return(product, nil)
	orders.On("OrderIDTaken", mock.AnythingOfType("string")).Return(false, nil)
	orders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil)
	cart.On("Clear", userID).Return(nil)

	order, err := svc.Checkout(userID, nil, models.PaymentPaid, ShippingAddress{})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 90.0, order.Items[0].Price, "cart snapshot price wins over live catalog price")
	assert.Equal(t, 180.0, order.TotalAmount)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	cart.AssertCalled(t, "Clear", userID)
}

func TestCheckoutCartNotClearedOnFailure(t *testing.T) {
	svc, orders, products, cart := newOrderService()
	userID := uuid.New()
	product := testProduct(40)

	cart.On("ItemsByUser", userID).Return([]models.CartItem{
		{UserID: userID, ProductID: product.ID, Quantity: 1, Price: 40},
	}, nil)
	products.On("ByID", product.ID).Return(product, nil)
	orders.On("OrderIDTaken", mock.AnythingOfType("string")).Return(false, nil)
	orders.On("Create", mock.AnythingOfType("*models.Order")).Return(errors.New("connection reset"))

	_, err := svc.Checkout(userID, nil, "", ShippingAddress{})
	assert.True(t, errors.Is(err, apperr.ErrInternal))
	cart.AssertNotCalled(t, "Clear", mock.Anything)
}

func orderWith(userID uuid.UUID, statuses ...models.ItemStatus) *models.Order {
	order := &models.Order{
		OrderID: FormatOrderID("175640000000012345"),
		UserID:  userID,
		Items:   items(statuses...),
	}
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].Position = i
		order.Items[i].ItemID = DeriveItemID("175640000000012345", i)
	}
	order.DeliveryStatus = DeriveDeliveryStatus(order.Items)
	return order
}

func TestCancelOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("success while all processing", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemProcessing, models.ItemProcessing)
		orders.On("ByOrderID", order.OrderID).Return(order, nil)
		orders.On("Save", order).Return(nil)

		got, err := svc.Cancel(order.OrderID, userID)
		require.NoError(t, err)

		assert.Equal(t, models.DeliveryCancelled, got.DeliveryStatus)
		assert.NotNil(t, got.CancelledAt)
		for _, item := range got.Items {
			assert.Equal(t, models.ItemCancelled, item.Status)
		}
	})

	t.Run("forbidden for non-owner", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemProcessing)
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.Cancel(order.OrderID, uuid.New())
		assert.True(t, errors.Is(err, apperr.ErrForbidden))
		orders.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("rejected once any item shipped", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemProcessing, models.ItemShipped)
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.Cancel(order.OrderID, userID)
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
		assert.Nil(t, order.CancelledAt)
		assert.Equal(t, models.ItemProcessing, order.Items[0].Status, "state unchanged on rejection")
		orders.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("double cancel fails", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemCancelled, models.ItemCancelled)
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.Cancel(order.OrderID, userID)
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	})
}

func TestGetResolvesByEitherReference(t *testing.T) {
	userID := uuid.New()
	order := orderWith(userID, models.ItemProcessing)

	t.Run("human-readable identifier", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		got, err := svc.Get(order.OrderID, userID, models.RoleBuyer)
		require.NoError(t, err)
		assert.Equal(t, order.OrderID, got.OrderID)
	})

	t.Run("storage key", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		orders.On("ByKey", order.ID).Return(order, nil)

		got, err := svc.Get(order.ID.String(), userID, models.RoleBuyer)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("garbage reference", func(t *testing.T) {
		svc, _, _, _ := newOrderService()
		_, err := svc.Get("not-an-id", userID, models.RoleBuyer)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("foreign order forbidden", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.Get(order.OrderID, uuid.New(), models.RoleBuyer)
		assert.True(t, errors.Is(err, apperr.ErrForbidden))
	})

	t.Run("admin may read any order", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.Get(order.OrderID, uuid.New(), models.RoleAdmin)
		assert.NoError(t, err)
	})
}

func TestListMineBackfillsLegacyOrders(t *testing.T) {
	svc, orders, _, _ := newOrderService()
	userID := uuid.New()

	legacy := *orderWith(userID, models.ItemProcessing, models.ItemProcessing)
	legacy.Items[1].ItemID = "" // partial write

	orders.On("ByUser", userID, 20, 0).Return([]models.Order{legacy}, int64(1), nil)
	orders.On("Save", mock.AnythingOfType("*models.Order")).Return(nil)

	got, total, err := svc.ListMine(userID, 20, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, DeriveItemID("175640000000012345", 1), got[0].Items[1].ItemID)
	orders.AssertCalled(t, "Save", mock.Anything)
}

func TestUpdateItemStatus(t *testing.T) {
	userID := uuid.New()

	t.Run("seller ships own item", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemProcessing, models.ItemProcessing)
		sellerID := uuid.New()
		order.Items[0].SellerID = sellerID
		orders.On("ByOrderID", order.OrderID).Return(order, nil)
		orders.On("Save", order).Return(nil)

		got, err := svc.UpdateItemStatus(order.OrderID, order.Items[0].ItemID, sellerID,
			models.ItemShipped, TrackingUpdate{Courier: "DHL", TrackingNumber: "123"})
		require.NoError(t, err)

		assert.Equal(t, models.ItemShipped, got.Items[0].Status)
		assert.Equal(t, "DHL", got.Items[0].TrackingCourier)
		assert.NotNil(t, got.Items[0].TrackingUpdatedAt)
		assert.Equal(t, models.DeliveryPartiallyShipped, got.DeliveryStatus)
	})

	t.Run("foreign seller forbidden", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemProcessing)
		order.Items[0].SellerID = uuid.New()
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.UpdateItemStatus(order.OrderID, order.Items[0].ItemID, uuid.New(),
			models.ItemShipped, TrackingUpdate{})
		assert.True(t, errors.Is(err, apperr.ErrForbidden))
	})

	t.Run("backwards transition rejected", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemDelivered)
		sellerID := order.Items[0].SellerID
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.UpdateItemStatus(order.OrderID, order.Items[0].ItemID, sellerID,
			models.ItemShipped, TrackingUpdate{})
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	})

	t.Run("cancelled item cannot progress", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemCancelled)
		sellerID := order.Items[0].SellerID
		orders.On("ByOrderID", order.OrderID).Return(order, nil)

		_, err := svc.UpdateItemStatus(order.OrderID, order.Items[0].ItemID, sellerID,
			models.ItemShipped, TrackingUpdate{})
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc, _, _, _ := newOrderService()
		_, err := svc.UpdateItemStatus("ODx", "1", uuid.New(), "Lost", TrackingUpdate{})
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("stale write surfaces conflict", func(t *testing.T) {
		svc, orders, _, _ := newOrderService()
		order := orderWith(userID, models.ItemProcessing)
		sellerID := order.Items[0].SellerID
		orders.On("ByOrderID", order.OrderID).Return(order, nil)
		orders.On("Save", order).Return(apperr.Conflict("order was modified concurrently"))

		_, err := svc.UpdateItemStatus(order.OrderID, order.Items[0].ItemID, sellerID,
			models.ItemShipped, TrackingUpdate{})
		assert.True(t, errors.Is(err, apperr.ErrConflict))
	})
}
