package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/safar/go-storefront/internal/notify"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

const (
	MsgAdded   = "Товар добавлен в корзину"
	MsgRemoved = "Товар удален из корзины"
)

// Store persists the cart in a single slot. Every mutation reads the slot,
// applies a List operation and writes the whole list back.
type Store struct {
	kv       store.KV
	key      string
	notifier notify.Notifier
	log      *zap.Logger

	mtx sync.Mutex
}

func NewStore(kv store.KV, key string, notifier notify.Notifier, log *zap.Logger) *Store {
	return &Store{
		kv:       kv,
		key:      key,
		notifier: notifier,
		log:      log.Named("cart"),
	}
}

// IDs returns the persisted cart. A missing, unreadable or corrupt slot
// reads as an empty cart.
func (s *Store) IDs(ctx context.Context) List {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ids, err := s.load(ctx)
	if err != nil {
		s.log.Warn("Unable to read cart, treating as empty", zap.Error(err))
		return List{}
	}
	return ids
}

// load reads the slot. A missing or corrupt slot is an empty cart; only
// backend read failures are returned.
func (s *Store) load(ctx context.Context) (List, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return List{}, nil
	} else if err != nil {
		return nil, err
	}

	var ids List
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.log.Warn("Corrupt cart slot, treating as empty", zap.Error(err))
		return List{}, nil
	}
	if ids == nil {
		ids = List{}
	}
	return ids, nil
}

func (s *Store) save(ctx context.Context, ids List) error {
	if ids == nil {
		ids = List{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Store) mutate(ctx context.Context, op func(List) List) (List, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	next := op(current)
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Toggle adds id when absent and removes one unit otherwise, reporting
// whether it was added.
func (s *Store) Toggle(ctx context.Context, id int64) (bool, error) {
	var added bool
	_, err := s.mutate(ctx, func(l List) List {
		var next List
		next, added = l.Toggle(id)
		return next
	})
	if err != nil {
		return false, err
	}

	if added {
		s.notifier.Notify(notify.Success, MsgAdded)
	} else {
		s.notifier.Notify(notify.Success, MsgRemoved)
	}
	return added, nil
}

func (s *Store) Increment(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, func(l List) List { return l.Increment(id) })
	return err
}

func (s *Store) Decrement(ctx context.Context, id int64) error {
	_, err := s.mutate(ctx, func(l List) List { return l.Decrement(id) })
	return err
}

func (s *Store) RemoveAll(ctx context.Context, id int64) error {
	if _, err := s.mutate(ctx, func(l List) List { return l.RemoveAll(id) }); err != nil {
		return err
	}
	s.notifier.Notify(notify.Success, MsgRemoved)
	return nil
}

// Clear drops the slot entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) int {
	return s.IDs(ctx).Count()
}

func (s *Store) Contains(ctx context.Context, id int64) bool {
	return s.IDs(ctx).Contains(id)
}
