package checkout

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product entry in a cart.
type LineItem struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	UnitPrice     decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Quantity      int              `json:"quantity"`
	Variant       string           `json:"size,omitempty"`
	ImageRef      string           `json:"image,omitempty"`
	ColorOptions  []string         `json:"colors,omitempty"`
}

// LineTotal is unit price times quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Clone returns a copy that shares no memory with i.
func (i LineItem) Clone() LineItem {
	out := i
	if i.OriginalPrice != nil {
		op := *i.OriginalPrice
		out.OriginalPrice = &op
	}
	if i.ColorOptions != nil {
		out.ColorOptions = append([]string(nil), i.ColorOptions...)
	}
	return out
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for idx, item := range items {
		out[idx] = item.Clone()
	}
	return out
}

// Ledger keeps line items unique by id, in insertion order.
// It is not safe for concurrent use; Session guards it.
type Ledger struct {
	items []LineItem
}

// NewLedger rebuilds a ledger from persisted items. Entries with a non-positive
// quantity are dropped and repeated ids are merged into the first occurrence.
func NewLedger(items ...LineItem) *Ledger {
	l := &Ledger{}
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if idx := l.index(item.ID); idx >= 0 {
			l.items[idx].Quantity += item.Quantity
			continue
		}
		l.items = append(l.items, item.Clone())
	}
	return l
}

// Add increments the quantity of an existing id by one, or inserts the candidate
// with quantity 1. The candidate's own quantity is ignored.
func (l *Ledger) Add(candidate LineItem) {
	if idx := l.index(candidate.ID); idx >= 0 {
		l.items[idx].Quantity++
		return
	}
	item := candidate.Clone()
	item.Quantity = 1
	l.items = append(l.items, item)
}

// Remove deletes the item with the given id and reports whether it was present.
func (l *Ledger) Remove(id string) bool {
	idx := l.index(id)
	if idx < 0 {
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return true
}

// SetQuantity sets an exact quantity. A quantity of zero or less removes the item.
// Absent ids are ignored.
func (l *Ledger) SetQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		return l.Remove(id)
	}
	idx := l.index(id)
	if idx < 0 {
		return false
	}
	l.items[idx].Quantity = quantity
	return true
}

// Take removes an item and hands it back to the caller.
func (l *Ledger) Take(id string) (LineItem, bool) {
	idx := l.index(id)
	if idx < 0 {
		return LineItem{}, false
	}
	item := l.items[idx]
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return item, true
}

func (l *Ledger) Clear() {
	l.items = nil
}

// Items returns deep copies in insertion order.
func (l *Ledger) Items() []LineItem {
	return cloneItems(l.items)
}

func (l *Ledger) Item(id string) (LineItem, bool) {
	idx := l.index(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return l.items[idx].Clone(), true
}

func (l *Ledger) Len() int {
	return len(l.items)
}

// Subtotal is the sum of unit price times quantity over all items.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range l.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func (l *Ledger) index(id string) int {
	for idx := range l.items {
		if l.items[idx].ID == id {
			return idx
		}
	}
	return -1
}
