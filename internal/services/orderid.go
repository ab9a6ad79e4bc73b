package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/example/bazaar/internal/models"
)

const (
	// OrderIDPrefix precedes the numeric base in every order identifier.
	OrderIDPrefix = "OD"

	// baseDigits is the total width of the base token: a 13-digit
	// millisecond timestamp padded with random decimal digits.
	baseDigits = 18

	// maxIDAttempts bounds the collision-check loop on assignment.
	maxIDAttempts = 5
)

// GenerateBase produces the high-entropy numeric token order and item
// identifiers derive from. The timestamp prefix keeps tokens roughly
// monotonic; the random suffix is the collision defence. Uniqueness is
// probabilistic, not guaranteed — callers collision-check against the
// store (see AssignIdentifiers).
func GenerateBase() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ts) >= baseDigits {
		return ts[:baseDigits]
	}
	return ts + randomDigits(baseDigits-len(ts))
}

func randomDigits(n int) string {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		v = new(big.Int).Mod(big.NewInt(time.Now().UnixNano()), limit)
	}
	return fmt.Sprintf("%0*d", n, v)
}

// DeriveItemID computes the identifier of the line item at the given
// zero-based position: base + index under arbitrary-precision decimal
// addition. It is a pure function — any reader that knows the order's
// base and the item's position can recompute the identifier without a
// lookup. Both the write path and read-repair go through here.
func DeriveItemID(base string, index int) string {
	b, ok := new(big.Int).SetString(base, 10)
	if !ok {
		// Non-numeric base from a legacy record: deterministic
		// concatenation keeps the identifier derivable either way.
		return base + strconv.Itoa(index)
	}
	return b.Add(b, big.NewInt(int64(index))).String()
}

// FormatOrderID turns a base token into the human-readable order
// identifier.
func FormatOrderID(base string) string {
	return OrderIDPrefix + base
}

// BaseFromOrderID strips the prefix back off.
func BaseFromOrderID(orderID string) string {
	return strings.TrimPrefix(orderID, OrderIDPrefix)
}

// IsOrderID reports whether s looks like a human-readable order
// identifier rather than a storage key.
func IsOrderID(s string) bool {
	return strings.HasPrefix(s, OrderIDPrefix)
}

// AssignIdentifiers sets the order identifier and every item identifier
// on a not-yet-persisted order. taken reports whether a candidate order
// identifier already exists in the store; on a collision a fresh base is
// generated, up to maxIDAttempts times. If every attempt collides the
// last candidate is kept anyway — at this entropy width that means the
// clock and the random source both betrayed us, and losing the checkout
// would be worse than the astronomically unlikely duplicate.
func AssignIdentifiers(order *models.Order, taken func(orderID string) (bool, error)) error {
	base := BaseFromOrderID(order.OrderID)

	if order.OrderID == "" {
		for attempt := 0; attempt < maxIDAttempts; attempt++ {
			base = GenerateBase()
			exists, err := taken(FormatOrderID(base))
			if err != nil {
				return err
			}
			if !exists {
				break
			}
			if attempt == maxIDAttempts-1 {
				log.Printf("[OrderID] %d collision-check attempts exhausted, keeping %s", maxIDAttempts, FormatOrderID(base))
			}
		}
		order.OrderID = FormatOrderID(base)
	}

	for i := range order.Items {
		order.Items[i].Position = i
		if order.Items[i].ItemID == "" {
			order.Items[i].ItemID = DeriveItemID(base, i)
		}
	}

	return nil
}

// BackfillIdentifiers repairs an order persisted before identifier
// assignment existed (or after a partial write). It returns true when
// anything was filled in, so the caller knows to persist once.
func BackfillIdentifiers(order *models.Order, taken func(orderID string) (bool, error)) (bool, error) {
	changed := order.OrderID == ""
	if !changed {
		base := BaseFromOrderID(order.OrderID)
		for i := range order.Items {
			if order.Items[i].ItemID == "" {
				order.Items[i].ItemID = DeriveItemID(base, order.Items[i].Position)
				changed = true
			}
		}
		return changed, nil
	}

	if err := AssignIdentifiers(order, taken); err != nil {
		return false, err
	}
	return true, nil
}
