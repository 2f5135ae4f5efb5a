package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/pkg/logger"
)

// keyedMutex serializes work per session id. Entries are dropped once no
// goroutine holds or waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// SessionStore loads a checkout.Session, lets the caller mutate it and saves
// the resulting snapshot, all under the session's lock. Services that touch
// the same sessions must share one store.
type SessionStore struct {
	sessions repository.SessionRepository
	orders   repository.OrderRepository
	tx       repository.Transactor
	pricing  checkout.Pricing
	locks    *keyedMutex
	now      func() time.Time
	orderIDs checkout.OrderIDGenerator
}

func NewSessionStore(sessions repository.SessionRepository, orders repository.OrderRepository, pricing checkout.Pricing) *SessionStore {
	return &SessionStore{
		sessions: sessions,
		orders:   orders,
		pricing:  pricing,
		locks:    newKeyedMutex(),
		now:      time.Now,
		orderIDs: checkout.RandomOrderID,
	}
}

// WithTransactor makes checkout write the order and the emptied session in
// one transaction. Use it when both live in the same database.
func (s *SessionStore) WithTransactor(tx repository.Transactor) *SessionStore {
	s.tx = tx
	return s
}

type loadMode int

const (
	withoutHistory loadMode = iota
	withHistory
)

// read runs fn against the current session without saving.
func (s *SessionStore) read(ctx context.Context, sessionID string, mode loadMode, fn func(*checkout.Session) error) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, _, err := s.load(ctx, sessionID, mode)
	if err != nil {
		return err
	}
	return fn(session)
}

// update runs fn and persists the session when fn succeeds. A failing fn
// leaves the stored state untouched.
func (s *SessionStore) update(ctx context.Context, sessionID string, mode loadMode, fn func(*checkout.Session) error) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, record, err := s.load(ctx, sessionID, mode)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	return s.save(ctx, session, record)
}

// placeOrder runs fn with order history loaded and commits the order it returns
// together with the session. Either both are stored or neither is.
func (s *SessionStore) placeOrder(ctx context.Context, sessionID string, fn func(*checkout.Session) (*model.Order, error)) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, record, err := s.load(ctx, sessionID, withHistory)
	if err != nil {
		return err
	}
	order, err := fn(session)
	if err != nil {
		return err
	}

	if s.tx != nil {
		return s.tx.WithinTransaction(ctx, func(sessions repository.SessionRepository, orders repository.OrderRepository) error {
			if err := orders.Create(order); err != nil {
				return err
			}
			return s.saveTo(ctx, sessions, session, record)
		})
	}

	// Sessions outside the order database: the order row is removed again
	// when the session cannot be saved.
	if err := s.orders.Create(order); err != nil {
		return err
	}
	if err := s.saveTo(ctx, s.sessions, session, record); err != nil {
		if delErr := s.orders.Delete(order.SessionID, order.OrderNumber); delErr != nil {
			logger.Error("Failed to roll back order after session save failed", delErr, map[string]interface{}{
				"session_id":   order.SessionID,
				"order_number": order.OrderNumber,
			})
		}
		return err
	}
	return nil
}

func (s *SessionStore) load(ctx context.Context, sessionID string, mode loadMode) (*checkout.Session, *model.CartSession, error) {
	record, err := s.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		// Purged or expired sessions start over with an empty cart.
		logger.Debug("Session not found, starting empty cart", map[string]interface{}{
			"session_id": sessionID,
		})
		record = &model.CartSession{ID: sessionID, CreatedAt: s.now()}
	} else if err != nil {
		return nil, nil, err
	}

	var state checkout.State
	if record.State != "" {
		if err := json.Unmarshal([]byte(record.State), &state); err != nil {
			return nil, nil, fmt.Errorf("decode session %s: %w", sessionID, err)
		}
	}

	opts := []checkout.Option{
		checkout.WithPricing(s.pricing),
		checkout.WithClock(s.now),
		checkout.WithOrderIDGenerator(s.orderIDs),
	}
	if mode == withHistory {
		rows, err := s.orders.FindBySessionID(sessionID)
		if err != nil {
			return nil, nil, err
		}
		history := make([]checkout.Order, 0, len(rows))
		for i := range rows {
			history = append(history, rows[i].ToCheckout())
		}
		opts = append(opts, checkout.WithHistory(history))
	}

	return checkout.RestoreSession(sessionID, state, opts...), record, nil
}

func (s *SessionStore) save(ctx context.Context, session *checkout.Session, record *model.CartSession) error {
	return s.saveTo(ctx, s.sessions, session, record)
}

func (s *SessionStore) saveTo(ctx context.Context, sessions repository.SessionRepository, session *checkout.Session, record *model.CartSession) error {
	payload, err := json.Marshal(session.Snapshot())
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID(), err)
	}
	record.State = string(payload)
	record.LastActiveAt = s.now()
	return sessions.Save(ctx, record)
}
