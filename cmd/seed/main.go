// Package main provides a tool to seed the database with demo time records.
//
// This reads existing users from the database and creates a few weeks of
// plausible work sessions to exercise the list and statistics endpoints.
//
// Usage:
//
//	DB_PATH=~/Clockwork/db go run ./cmd/seed
//	DB_PATH=~/Clockwork/db go run ./cmd/seed --days 60
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/clockworkapp/clockwork-server/internal/domain"
	"github.com/clockworkapp/clockwork-server/internal/id"
	"github.com/clockworkapp/clockwork-server/internal/store"
)

var days = flag.Int("days", 30, "How many days back to seed records for")

var projects = []struct {
	name string
	tags []string
}{
	{"Website Redesign", []string{"design", "frontend"}},
	{"Mobile App", []string{"frontend"}},
	{"API Cleanup", []string{"backend", "refactor"}},
	{"Client Onboarding", []string{"meetings"}},
	{"Internal Tooling", []string{"backend"}},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Clockwork/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	hasUsers, err := s.HasUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to check users: %v", err)
	}
	if !hasUsers {
		log.Fatal("No users found in database. Run setup first.")
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		fmt.Printf("\nSeeding records for user: %s (%s)\n", user.Name(), user.ID)
		created := 0

		for d := range *days {
			day := time.Now().AddDate(0, 0, -d)
			// Skip weekends and the occasional weekday.
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}
			if rng.Intn(10) == 0 {
				continue
			}

			sessions := 1 + rng.Intn(3)
			cursor := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.Local)

			for range sessions {
				p := projects[rng.Intn(len(projects))]
				length := time.Duration(30+rng.Intn(120)) * time.Minute
				start := cursor.Add(time.Duration(rng.Intn(30)) * time.Minute)
				end := start.Add(length)
				cursor = end.Add(15 * time.Minute)

				record := domain.NewTimeRecord(id.MustGenerate("rec"), user.ID, &domain.RecordPayload{
					ProjectName: p.name,
					Tags:        p.tags,
					StartTime:   start.Format(time.RFC3339),
					EndTime:     end.Format(time.RFC3339),
					Date:        start.Format(domain.DateLayout),
				}, end)

				if err := s.PutRecord(ctx, record); err != nil {
					log.Printf("Failed to store record: %v", err)
					continue
				}
				created++
			}
		}

		fmt.Printf("Created %d records\n", created)
	}

	fmt.Println("\nDone.")
}
