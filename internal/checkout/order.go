package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/beautycart-backend/pkg/util"
	"github.com/shopspring/decimal"
)

var ErrDuplicateOrderID = errors.New("could not allocate a unique order id")

// maxOrderIDAttempts bounds regeneration when a random id collides with history.
const maxOrderIDAttempts = 16

// Order is an immutable snapshot of a completed checkout.
type Order struct {
	ID         string          `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []LineItem      `json:"items"`
	CouponCode string          `json:"coupon_code,omitempty"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
}

// Clone returns a copy whose items share no memory with o.
func (o Order) Clone() Order {
	out := o
	out.Items = cloneItems(o.Items)
	return out
}

// ItemCount is the number of units across all lines.
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderIDGenerator produces candidate order ids.
type OrderIDGenerator func() string

// RandomOrderID returns "#" followed by a random integer in [100000, 999999].
func RandomOrderID() string {
	return fmt.Sprintf("#%d", util.GenerateRandomNumber(100000, 999999))
}

// OrderHistory is an append-only, chronologically ordered list of orders.
// Reads may run concurrently; appends are serialized.
type OrderHistory struct {
	mu     sync.RWMutex
	orders []Order
}

func NewOrderHistory(orders ...Order) *OrderHistory {
	h := &OrderHistory{}
	for _, o := range orders {
		h.orders = append(h.orders, o.Clone())
	}
	return h
}

func (h *OrderHistory) Append(o Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orders = append(h.orders, o.Clone())
}

// List returns copies in the order they were placed.
func (h *OrderHistory) List() []Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Order, len(h.orders))
	for idx, o := range h.orders {
		out[idx] = o.Clone()
	}
	return out
}

func (h *OrderHistory) Find(id string) (Order, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return Order{}, false
}

func (h *OrderHistory) Contains(id string) bool {
	_, ok := h.Find(id)
	return ok
}

func (h *OrderHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orders)
}
