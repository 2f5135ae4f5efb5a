package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ErrInvalidItem is returned for line items without an id. Prices are taken
// as given, negative ones included.
var ErrInvalidItem = errors.New("invalid cart item")

// CartView is everything the cart screen renders for one session.
type CartView struct {
	SessionID      string              `json:"session_id"`
	Items          []checkout.LineItem `json:"items"`
	Totals         checkout.Totals     `json:"totals"`
	AppliedCoupon  string              `json:"applied_coupon,omitempty"`
	SavedItems     []checkout.LineItem `json:"saved_items"`
	SelectedItems  []string            `json:"selected_items"`
	RecentlyViewed []checkout.LineItem `json:"recently_viewed"`
}

func newCartView(s *checkout.Session) *CartView {
	code, _ := s.AppliedCoupon()
	return &CartView{
		SessionID:      s.ID(),
		Items:          s.Items(),
		Totals:         s.Totals(),
		AppliedCoupon:  code,
		SavedItems:     s.SavedItems(),
		SelectedItems:  s.Selected(),
		RecentlyViewed: s.RecentlyViewed(),
	}
}

// CouponPreview is a catalog entry with what it would save on the current cart.
type CouponPreview struct {
	checkout.Coupon
	Savings decimal.Decimal `json:"savings"`
	Applied bool            `json:"applied"`
}

type CartService interface {
	CreateSession(ctx context.Context) (string, error)
	EndSession(ctx context.Context, sessionID string) error
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, sessionID string, item checkout.LineItem) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*CartView, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*CartView, error)
	ListCoupons(ctx context.Context, sessionID string) ([]CouponPreview, error)
	CalculateSavings(ctx context.Context, sessionID, code string) (decimal.Decimal, error)
	SaveForLater(ctx context.Context, sessionID, itemID string) (*CartView, error)
	MoveToWishlist(ctx context.Context, sessionID, itemID string) (*CartView, error)
	SetSelection(ctx context.Context, sessionID string, itemIDs []string) (*CartView, error)
	RemoveSelected(ctx context.Context, sessionID string) (*CartView, int, error)
	ViewProduct(ctx context.Context, sessionID string, item checkout.LineItem) ([]checkout.LineItem, error)
	PurgeIdleSessions(ctx context.Context, idleFor time.Duration, limit int) (int64, error)
}

type cartService struct {
	store     *SessionStore
	favorites repository.FavoriteRepository
	notifier  SessionNotifier
}

func NewCartService(
	store *SessionStore,
	favoriteRepo repository.FavoriteRepository,
	notifier SessionNotifier,
) CartService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &cartService{
		store:     store,
		favorites: favoriteRepo,
		notifier:  notifier,
	}
}

func (s *cartService) CreateSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := s.store.now()
	record := &model.CartSession{ID: id, State: "{}", LastActiveAt: now, CreatedAt: now}
	if err := s.store.sessions.Create(ctx, record); err != nil {
		logger.Error("Failed to create session", err)
		return "", err
	}

	logger.Info("Session created", map[string]interface{}{
		"session_id": id,
	})
	return id, nil
}

func (s *cartService) EndSession(ctx context.Context, sessionID string) error {
	unlock := s.store.locks.Lock(sessionID)
	defer unlock()

	if err := s.store.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.notifier.Notify(sessionID, EventSessionEnded, nil)
	logger.Info("Session ended", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	var view *CartView
	err := s.store.read(ctx, sessionID, withoutHistory, func(session *checkout.Session) error {
		view = newCartView(session)
		return nil
	})
	if err != nil {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return view, nil
}

// mutate applies fn, persists the session and broadcasts the new cart.
func (s *cartService) mutate(ctx context.Context, sessionID string, fn func(*checkout.Session) error) (*CartView, error) {
	var view *CartView
	err := s.store.update(ctx, sessionID, withoutHistory, func(session *checkout.Session) error {
		if err := fn(session); err != nil {
			return err
		}
		view = newCartView(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(sessionID, EventCartUpdated, view)
	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, item checkout.LineItem) (*CartView, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    item.ID,
	})

	if item.ID == "" {
		logger.Warn("Rejected invalid cart item", map[string]interface{}{
			"session_id": sessionID,
			"item_id":    item.ID,
		})
		return nil, ErrInvalidItem
	}

	view, err := s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.AddItem(item)
		return nil
	})
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"session_id": sessionID,
			"item_id":    item.ID,
		})
		return nil, err
	}
	return view, nil
}

// RemoveItem succeeds even when the item is not in the cart.
func (s *cartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*CartView, error) {
	logger.Info("Removing item from cart", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    itemID,
	})

	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.RemoveItem(itemID)
		return nil
	})
}

// UpdateQuantity sets an exact quantity. Zero or less removes the line. An
// item id that is not in the cart leaves the cart unchanged.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*CartView, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    itemID,
		"quantity":   quantity,
	})

	view, err := s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.SetQuantity(itemID, quantity)
		return nil
	})
	if err != nil {
		logger.Error("Failed to update cart item quantity", err, map[string]interface{}{
			"session_id": sessionID,
			"item_id":    itemID,
		})
		return nil, err
	}
	return view, nil
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	logger.Info("Clearing cart", map[string]interface{}{
		"session_id": sessionID,
	})

	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.ClearCart()
		return nil
	})
}

func (s *cartService) ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error) {
	logger.Info("Applying coupon", map[string]interface{}{
		"session_id":  sessionID,
		"coupon_code": code,
	})

	view, err := s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		_, err := session.ApplyCoupon(code)
		return err
	})
	if err != nil {
		logger.Warn("Coupon not applied", map[string]interface{}{
			"session_id":  sessionID,
			"coupon_code": code,
			"error":       err.Error(),
		})
		return nil, err
	}
	return view, nil
}

func (s *cartService) RemoveCoupon(ctx context.Context, sessionID string) (*CartView, error) {
	logger.Info("Removing coupon", map[string]interface{}{
		"session_id": sessionID,
	})

	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.RemoveCoupon()
		return nil
	})
}

func (s *cartService) ListCoupons(ctx context.Context, sessionID string) ([]CouponPreview, error) {
	var previews []CouponPreview
	err := s.store.read(ctx, sessionID, withoutHistory, func(session *checkout.Session) error {
		applied, _ := session.AppliedCoupon()
		for _, c := range checkout.Catalog() {
			savings, err := session.CalculateSavings(c.Code)
			if err != nil {
				return err
			}
			previews = append(previews, CouponPreview{Coupon: c, Savings: savings, Applied: c.Code == applied})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return previews, nil
}

func (s *cartService) CalculateSavings(ctx context.Context, sessionID, code string) (decimal.Decimal, error) {
	savings := decimal.Zero
	err := s.store.read(ctx, sessionID, withoutHistory, func(session *checkout.Session) error {
		var err error
		savings, err = session.CalculateSavings(code)
		return err
	})
	return savings, err
}

func (s *cartService) SaveForLater(ctx context.Context, sessionID, itemID string) (*CartView, error) {
	logger.Info("Saving cart item for later", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    itemID,
	})

	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.SaveForLater(itemID)
		return nil
	})
}

// MoveToWishlist takes the line out of the cart and stores it as a favorite.
// The cart is only saved once the favorite is written.
func (s *cartService) MoveToWishlist(ctx context.Context, sessionID, itemID string) (*CartView, error) {
	logger.Info("Moving cart item to wishlist", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    itemID,
	})

	view, err := s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		item, ok := session.TakeItem(itemID)
		if !ok {
			return nil
		}
		_, err := s.favorites.Add(model.NewFavoriteItem(sessionID, item))
		return err
	})
	if err != nil {
		logger.Error("Failed to move cart item to wishlist", err, map[string]interface{}{
			"session_id": sessionID,
			"item_id":    itemID,
		})
		return nil, err
	}
	s.notifier.Notify(sessionID, EventWishlistMoved, map[string]string{"item_id": itemID})
	return view, nil
}

func (s *cartService) SetSelection(ctx context.Context, sessionID string, itemIDs []string) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.SetSelected(itemIDs)
		return nil
	})
}

func (s *cartService) RemoveSelected(ctx context.Context, sessionID string) (*CartView, int, error) {
	removed := 0
	view, err := s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		removed = session.RemoveSelected()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	logger.Info("Removed selected cart items", map[string]interface{}{
		"session_id": sessionID,
		"removed":    removed,
	})
	return view, removed, nil
}

func (s *cartService) ViewProduct(ctx context.Context, sessionID string, item checkout.LineItem) ([]checkout.LineItem, error) {
	if item.ID == "" {
		return nil, ErrInvalidItem
	}
	var recent []checkout.LineItem
	err := s.store.update(ctx, sessionID, withoutHistory, func(session *checkout.Session) error {
		session.ViewItem(item)
		recent = session.RecentlyViewed()
		return nil
	})
	return recent, err
}

func (s *cartService) PurgeIdleSessions(ctx context.Context, idleFor time.Duration, limit int) (int64, error) {
	cutoff := s.store.now().Add(-idleFor)
	deleted, err := s.store.sessions.DeleteIdleBefore(ctx, cutoff, limit)
	if err != nil {
		logger.Error("Failed to purge idle sessions", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, err
	}

	logger.Info("Idle sessions purged", map[string]interface{}{
		"cutoff":  cutoff,
		"deleted": deleted,
	})
	return deleted, nil
}
