package checkout

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// recentlyViewedLimit caps the recently viewed list.
const recentlyViewedLimit = 4

// State is the persistable part of a session. Order history is stored separately.
type State struct {
	Items          []LineItem      `json:"items"`
	AppliedCoupon  string          `json:"applied_coupon,omitempty"`
	Discount       decimal.Decimal `json:"discount"`
	SavedItems     []LineItem      `json:"saved_items,omitempty"`
	SelectedItems  []string        `json:"selected_items,omitempty"`
	RecentlyViewed []LineItem      `json:"recently_viewed,omitempty"`
}

// Session owns one shopper's ledger, coupon state and order history. Every
// method takes the session lock, so each mutation is atomic with respect to
// the others.
type Session struct {
	mu sync.Mutex

	id       string
	pricing  Pricing
	ledger   *Ledger
	coupon   *CouponEngine
	history  *OrderHistory
	saved    []LineItem
	selected []string
	recent   []LineItem

	newOrderID OrderIDGenerator
	now        func() time.Time
}

type Option func(*Session)

func WithPricing(p Pricing) Option {
	return func(s *Session) { s.pricing = p }
}

func WithOrderIDGenerator(gen OrderIDGenerator) Option {
	return func(s *Session) { s.newOrderID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithHistory seeds previously placed orders, oldest first.
func WithHistory(orders []Order) Option {
	return func(s *Session) { s.history = NewOrderHistory(orders...) }
}

// NewSession creates an empty session.
func NewSession(id string, opts ...Option) *Session {
	s := &Session{
		id:         id,
		pricing:    DefaultPricing(),
		ledger:     NewLedger(),
		coupon:     NewCouponEngine(),
		history:    NewOrderHistory(),
		newOrderID: RandomOrderID,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RestoreSession rebuilds a session from its last saved state.
func RestoreSession(id string, st State, opts ...Option) *Session {
	s := NewSession(id, opts...)
	s.ledger = NewLedger(st.Items...)
	s.coupon.restore(st.AppliedCoupon, st.Discount)
	s.saved = cloneItems(st.SavedItems)
	s.selected = append([]string(nil), st.SelectedItems...)
	s.recent = cloneItems(st.RecentlyViewed)
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the state to persist after a mutation.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Items:          s.ledger.Items(),
		AppliedCoupon:  s.coupon.AppliedCode(),
		Discount:       s.coupon.Discount(),
		SavedItems:     cloneItems(s.saved),
		SelectedItems:  append([]string(nil), s.selected...),
		RecentlyViewed: cloneItems(s.recent),
	}
}

func (s *Session) AddItem(candidate LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Add(candidate)
}

// RemoveItem is a no-op when the id is absent.
func (s *Session) RemoveItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Remove(id)
}

func (s *Session) SetQuantity(id string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.SetQuantity(id, quantity)
}

// ClearCart empties the ledger. The applied coupon is left as is.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear()
	s.selected = nil
}

func (s *Session) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Items()
}

func (s *Session) Item(id string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Item(id)
}

// Totals recomputes the price breakdown from the current items and coupon.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *Session) totalsLocked() Totals {
	return s.pricing.Compute(s.ledger.Subtotal(), s.coupon.AppliedCode(), s.coupon.Discount())
}

// ApplyCoupon applies code against the current subtotal.
func (s *Session) ApplyCoupon(code string) (Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon.Apply(code, s.ledger.Subtotal())
}

func (s *Session) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon.Remove()
}

// AppliedCoupon returns the active code, empty when none, and its frozen discount.
func (s *Session) AppliedCoupon() (string, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon.AppliedCode(), s.coupon.Discount()
}

// CalculateSavings previews a coupon without applying it.
func (s *Session) CalculateSavings(code string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := LookupCoupon(code)
	if !ok {
		return decimal.Zero, ErrCouponNotFound
	}
	return c.Savings(s.ledger.Subtotal(), s.pricing), nil
}

// PlaceOrder snapshots the ledger into a new order, appends it to history and
// resets the ledger and coupon for the next shopping cycle.
func (s *Session) PlaceOrder() (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.allocateOrderID()
	if err != nil {
		return Order{}, err
	}

	subtotal := s.ledger.Subtotal()
	order := Order{
		ID:         id,
		CreatedAt:  s.now(),
		Items:      s.ledger.Items(),
		CouponCode: s.coupon.AppliedCode(),
		Discount:   s.coupon.Discount(),
		Total:      s.pricing.OrderTotal(subtotal, s.coupon.Discount()),
	}
	s.history.Append(order)

	s.ledger.Clear()
	s.coupon.Remove()
	s.selected = nil

	return order.Clone(), nil
}

func (s *Session) allocateOrderID() (string, error) {
	for attempt := 0; attempt < maxOrderIDAttempts; attempt++ {
		id := s.newOrderID()
		if !s.history.Contains(id) {
			return id, nil
		}
	}
	return "", ErrDuplicateOrderID
}

// Orders returns the order history, oldest first.
func (s *Session) Orders() []Order {
	return s.history.List()
}

func (s *Session) Order(id string) (Order, bool) {
	return s.history.Find(id)
}

// SaveForLater moves a cart line to the saved list.
func (s *Session) SaveForLater(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.ledger.Take(id)
	if !ok {
		return false
	}
	s.saved = append(s.saved, item)
	return true
}

func (s *Session) SavedItems() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.saved)
}

// TakeItem removes a cart line and returns it, for moving it elsewhere.
func (s *Session) TakeItem(id string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Take(id)
}

func (s *Session) SetSelected(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = append([]string(nil), ids...)
}

func (s *Session) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

// RemoveSelected drops every selected line from the cart, clears the selection
// and returns how many lines were removed.
func (s *Session) RemoveSelected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range s.selected {
		if s.ledger.Remove(id) {
			removed++
		}
	}
	s.selected = nil
	return removed
}

// ViewItem puts item at the front of the recently viewed list.
func (s *Session) ViewItem(item LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := []LineItem{item.Clone()}
	for _, r := range s.recent {
		if r.ID != item.ID {
			recent = append(recent, r)
		}
	}
	if len(recent) > recentlyViewedLimit {
		recent = recent[:recentlyViewedLimit]
	}
	s.recent = recent
}

func (s *Session) RecentlyViewed() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.recent)
}
