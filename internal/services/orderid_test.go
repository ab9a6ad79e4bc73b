package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bazaar/internal/models"
)

func TestGenerateBase(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{18}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		base := GenerateBase()
		assert.Regexp(t, pattern, base)
		seen[base] = struct{}{}
	}
	// With 5 random digits on top of a millisecond clock, 100 draws
	// colliding would point at a broken random source.
	assert.Greater(t, len(seen), 90)
}

func TestFormatOrderID(t *testing.T) {
	base := GenerateBase()
	orderID := FormatOrderID(base)

	assert.Regexp(t, `^OD\d{18}$`, orderID)
	assert.Equal(t, base, BaseFromOrderID(orderID))
	assert.True(t, IsOrderID(orderID))
	assert.False(t, IsOrderID(base))
}

func TestDeriveItemID(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		index int
		want  string
	}{
		{"position zero is the base", "175640000000012345", 0, "175640000000012345"},
		{"position one adds one", "175640000000012345", 1, "175640000000012346"},
		{"decimal carry propagates", "175640000000099999", 1, "175640000000100000"},
		{"large index", "175640000000012345", 17, "175640000000012362"},
		{"non-numeric base concatenates", "legacy-base", 3, "legacy-base3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveItemID(tt.base, tt.index))
		})
	}
}

func TestDeriveItemIDIsPure(t *testing.T) {
	base := GenerateBase()
	for i := 0; i < 5; i++ {
		assert.Equal(t, DeriveItemID(base, i), DeriveItemID(base, i))
	}
}

func TestAssignIdentifiers(t *testing.T) {
	order := &models.Order{
		Items: []models.LineItem{{Quantity: 2}, {Quantity: 1}},
	}

	err := AssignIdentifiers(order, func(string) (bool, error) { return false, nil })
	require.NoError(t, err)

	assert.Regexp(t, `^OD\d{18}$`, order.OrderID)
	base := BaseFromOrderID(order.OrderID)
	assert.Equal(t, base, order.Items[0].ItemID)
	assert.Equal(t, DeriveItemID(base, 1), order.Items[1].ItemID)
	assert.Equal(t, 0, order.Items[0].Position)
	assert.Equal(t, 1, order.Items[1].Position)
}

func TestAssignIdentifiersRetriesOnCollision(t *testing.T) {
	var attempts int
	order := &models.Order{}

	err := AssignIdentifiers(order, func(string) (bool, error) {
		attempts++
		return attempts < 3, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, attempts)
	assert.Regexp(t, `^OD\d{18}$`, order.OrderID)
}

func TestAssignIdentifiersKeepsLastAfterExhaustion(t *testing.T) {
	var attempts int
	order := &models.Order{}

	// Every candidate collides; the checkout still gets an identifier.
	err := AssignIdentifiers(order, func(string) (bool, error) {
		attempts++
		return true, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 5, attempts)
	assert.Regexp(t, `^OD\d{18}$`, order.OrderID)
}

func TestAssignIdentifiersKeepsExistingOrderID(t *testing.T) {
	order := &models.Order{
		OrderID: "OD175640000000012345",
		Items:   []models.LineItem{{}, {}},
	}

	err := AssignIdentifiers(order, func(string) (bool, error) {
		t.Fatal("collision check must not run when the identifier exists")
		return false, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "OD175640000000012345", order.OrderID)
	assert.Equal(t, "175640000000012345", order.Items[0].ItemID)
	assert.Equal(t, "175640000000012346", order.Items[1].ItemID)
}

func TestBackfillIdentifiers(t *testing.T) {
	t.Run("complete order untouched", func(t *testing.T) {
		order := &models.Order{
			OrderID: "OD175640000000012345",
			Items:   []models.LineItem{{ItemID: "175640000000012345", Position: 0}},
		}
		changed, err := BackfillIdentifiers(order, nil)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("missing item id recomputed from position", func(t *testing.T) {
		order := &models.Order{
			OrderID: "OD175640000000012345",
			Items: []models.LineItem{
				{ItemID: "175640000000012345", Position: 0},
				{Position: 1},
			},
		}
		changed, err := BackfillIdentifiers(order, nil)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "175640000000012346", order.Items[1].ItemID)
	})

	t.Run("missing order id assigned", func(t *testing.T) {
		order := &models.Order{Items: []models.LineItem{{Position: 0}}}
		changed, err := BackfillIdentifiers(order, func(string) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Regexp(t, `^OD\d{18}$`, order.OrderID)
		assert.Equal(t, BaseFromOrderID(order.OrderID), order.Items[0].ItemID)
	})
}
