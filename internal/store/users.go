package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/clockworkapp/clockwork-server/internal/domain"
)

// CreateUser stores a user and its email index atomically. Fails with
// ErrEmailExists when the (case-insensitive) email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	emailIdx := userEmailKey(user.Email)
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(emailIdx)
		if err == nil {
			return ErrEmailExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(userKey(user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return txn.Set(emailIdx, []byte(user.ID))
	})
}

// UpdateUser overwrites an existing user. The email is immutable, so the
// index never needs maintenance here.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(userKey(user.ID), user)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	err := s.get(userKey(id), &user)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user via the email index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get(userKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user account, in key order.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var users []*domain.User
	prefix := []byte(userKeyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// Index entries share the "user:" prefix; skip them.
			if strings.HasPrefix(string(it.Item().Key()), userEmailPrefix) {
				continue
			}

			var user domain.User
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			}); err != nil {
				return err
			}
			users = append(users, &user)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return users, nil
}

// HasUsers reports whether any user account exists. Used to gate the
// one-time setup endpoint.
func (s *Store) HasUsers(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	prefix := []byte(userKeyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// Index entries share the "user:" prefix; skip them.
			if strings.HasPrefix(string(it.Item().Key()), userEmailPrefix) {
				continue
			}
			found = true
			return nil
		}
		return nil
	})

	return found, err
}
