// Package main provides a read-only inspection tool for the record database.
//
// Usage:
//
//	DB_PATH=~/Clockwork/db go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/clockworkapp/clockwork-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Clockwork/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	userCount := 0
	recordsByUser := make(map[string]int)
	minutesByUser := make(map[string]int)
	activeTimers := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case strings.HasPrefix(key, "user:idx:"):
				// Index entry, nothing to show.

			case strings.HasPrefix(key, "user:"):
				userCount++
				err := item.Value(func(val []byte) error {
					var user domain.User
					if err := json.Unmarshal(val, &user); err != nil {
						return err
					}
					fmt.Printf("User: %s\n", user.Name())
					fmt.Printf("  ID: %s\n", user.ID)
					fmt.Printf("  Email: %s\n", user.Email)
					fmt.Printf("  Root: %v\n", user.IsRoot)
					fmt.Println()
					return nil
				})
				if err != nil {
					return err
				}

			case strings.HasPrefix(key, "rec:"):
				err := item.Value(func(val []byte) error {
					var record domain.TimeRecord
					if err := json.Unmarshal(val, &record); err != nil {
						return err
					}
					recordsByUser[record.UserID]++
					minutesByUser[record.UserID] += record.Duration
					return nil
				})
				if err != nil {
					return err
				}

			case strings.HasPrefix(key, "active:"):
				activeTimers++
				userID := strings.TrimPrefix(key, "active:")
				fmt.Printf("Active timer for user %s\n", userID)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Users: %d\n", userCount)
	fmt.Printf("Active timers: %d\n", activeTimers)
	for userID, count := range recordsByUser {
		fmt.Printf("Records for %s: %d (%d min total)\n", userID, count, minutesByUser[userID])
	}
}
