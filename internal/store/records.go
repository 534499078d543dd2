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

// QueryOptions bounds a range scan over one user's records. Dates are
// inclusive YYYY-MM-DD strings; empty bounds mean unbounded. Limit caps the
// number of returned records, 0 means no cap.
type QueryOptions struct {
	StartDate  string
	EndDate    string
	Descending bool
	Limit      int
}

// PutRecord upserts a completed record at its composite key.
func (s *Store) PutRecord(ctx context.Context, record *domain.TimeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(recordKey(record.UserID, record.Date, record.ID), record)
}

// GetRecord retrieves a record by its full address.
func (s *Store) GetRecord(ctx context.Context, userID, date, id string) (*domain.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record domain.TimeRecord
	err := s.get(recordKey(userID, date, id), &record)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindRecordByID locates a record when only the ID is known, by scanning
// the user's partition. The scan is bounded by the size of one user's
// history, which keeps it acceptable for the update and delete paths.
func (s *Store) FindRecordByID(ctx context.Context, userID, id string) (*domain.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := recordPrefix(userID)
	suffix := sortKeySep + id
	var record *domain.TimeRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if !strings.HasSuffix(string(item.Key()), suffix) {
				continue
			}
			record = &domain.TimeRecord{}
			return item.Value(func(val []byte) error {
				return json.Unmarshal(val, record)
			})
		}
		return ErrRecordNotFound
	})

	if err != nil {
		return nil, err
	}
	return record, nil
}

// QueryRecords returns completed records for a user within the date bounds,
// ordered by date (then ID) according to the Descending flag. The running
// record, if any, never appears here; it is reachable only through
// GetActiveRecord.
func (s *Store) QueryRecords(ctx context.Context, userID string, q QueryOptions) ([]*domain.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := recordPrefix(userID)
	records := []*domain.TimeRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true
		opts.Reverse = q.Descending

		it := txn.NewIterator(opts)
		defer it.Close()

		// Forward scans start at the lower date bound; reverse scans start
		// just past the upper one. 0xff sorts above any date byte, so the
		// reverse seek lands on the last key of the end date.
		seek := prefix
		if q.Descending {
			if q.EndDate != "" {
				seek = append(append([]byte{}, prefix...), q.EndDate+"\xff"...)
			} else {
				seek = append(append([]byte{}, prefix...), 0xff)
			}
		} else if q.StartDate != "" {
			seek = append(append([]byte{}, prefix...), q.StartDate...)
		}

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			date, _ := splitSortKey(string(item.Key()[len(prefix):]))

			if q.Descending {
				if q.StartDate != "" && date < q.StartDate {
					break
				}
			} else if q.EndDate != "" && date > q.EndDate {
				break
			}

			var record domain.TimeRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("unmarshal record %s: %w", item.Key(), err)
			}
			if record.IsActive {
				continue
			}

			records = append(records, &record)
			if q.Limit > 0 && len(records) >= q.Limit {
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteRecord removes a record by its full address.
func (s *Store) DeleteRecord(ctx context.Context, userID, date, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := recordKey(userID, date, id)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// RelocateRecord moves a record whose date changed to its new address. The
// new key is written and the old one deleted in a single transaction, so a
// crash can never lose the record between the two steps.
func (s *Store) RelocateRecord(ctx context.Context, record *domain.TimeRecord, oldDate string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(recordKey(record.UserID, record.Date, record.ID), data); err != nil {
			return fmt.Errorf("set relocated record: %w", err)
		}
		if err := txn.Delete(recordKey(record.UserID, oldDate, record.ID)); err != nil {
			return fmt.Errorf("delete old record key: %w", err)
		}
		return nil
	})
}

// StartActive writes a new running record, failing with ErrActiveExists if
// the user already has one. The existence check and both writes share one
// serializable transaction, so two concurrent starts cannot both succeed:
// the slower one either sees the pointer or loses the commit conflict.
func (s *Store) StartActive(ctx context.Context, record *domain.TimeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	pointer := activeKey(record.UserID)
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(pointer)
		if err == nil {
			return ErrActiveExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(recordKey(record.UserID, record.Date, record.ID), data); err != nil {
			return fmt.Errorf("set active record: %w", err)
		}
		return txn.Set(pointer, []byte(recordSortKey(record.Date, record.ID)))
	})

	if errors.Is(err, badger.ErrConflict) {
		return ErrActiveExists
	}
	return err
}

// GetActiveRecord returns the user's running record, or ErrNoActiveRecord.
func (s *Store) GetActiveRecord(ctx context.Context, userID string) (*domain.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record domain.TimeRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(activeKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoActiveRecord
		}
		if err != nil {
			return err
		}

		var sortKey string
		if err := item.Value(func(val []byte) error {
			sortKey = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get(recordKeyFromSort(userID, sortKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Dangling pointer; treat as idle.
			return ErrNoActiveRecord
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})

	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CompleteActive persists a record that has just been stopped and clears
// the active pointer in the same transaction.
func (s *Store) CompleteActive(ctx context.Context, record *domain.TimeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(recordKey(record.UserID, record.Date, record.ID), data); err != nil {
			return fmt.Errorf("set stopped record: %w", err)
		}
		return txn.Delete(activeKey(record.UserID))
	})

	if errors.Is(err, badger.ErrConflict) {
		return ErrNoActiveRecord
	}
	return err
}
