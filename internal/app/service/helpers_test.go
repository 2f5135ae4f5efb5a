package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedEvent struct {
	sessionID string
	eventType string
	payload   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(sessionID, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{sessionID, eventType, payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.eventType)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []checkout.Order
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, _ string, order checkout.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, order)
	return p.err
}

type serviceFixture struct {
	db        *gorm.DB
	store     *SessionStore
	cart      CartService
	orders    OrderService
	favorites repository.FavoriteRepository
	notifier  *recordingNotifier
	publisher *recordingPublisher
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	sessionRepo := repository.NewSessionRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)

	store := NewSessionStore(sessionRepo, orderRepo, checkout.DefaultPricing())
	next := 100000
	var mu sync.Mutex
	store.orderIDs = func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("#%d", next)
	}

	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}

	return &serviceFixture{
		db:        testDB,
		store:     store,
		cart:      NewCartService(store, favoriteRepo, notifier),
		orders:    NewOrderService(store, orderRepo, notifier, publisher),
		favorites: favoriteRepo,
		notifier:  notifier,
		publisher: publisher,
	}
}

func lineItem(id string, price int64) checkout.LineItem {
	return checkout.LineItem{ID: id, Name: "Product " + id, UnitPrice: decimal.NewFromInt(price)}
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
