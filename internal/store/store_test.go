package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nmarceau/facegate/internal/engine"
)

// noopLogger silences testcontainers output during the test run.
type noopLogger struct{}

func (noopLogger) Printf(string, ...interface{}) {}

// TestStoreIntegration runs a full integration test against a real Postgres
// container. It is skipped in short mode and when Docker is not reachable.
func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Probe Docker availability. We wrap this in a function to recover from
	// panics inside testcontainers (e.g. socket not found).
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("testcontainers panicked: %v", r)
			}
		}()
		_, err = testcontainers.NewDockerClientWithOpts(ctx)
		return
	}()
	if err != nil {
		t.Skipf("Docker not available, skipping integration test: %v", err)
	}

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("facegate_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		testcontainers.WithLogger(noopLogger{}),
	)
	if err != nil {
		t.Skipf("Failed to start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	// New runs the schema migration.
	s, err := New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to store: %v", err)
	}
	defer s.Close(ctx)

	// --- Test Scenarios ---

	rejected := engine.Outcome{
		Kind:      engine.SecretRejected,
		PhotoPath: "photos/photo_20240102_150405.png",
	}
	if err := s.RecordOutcome(ctx, rejected); err != nil {
		t.Fatalf("RecordOutcome(rejected) failed: %v", err)
	}

	recognized := engine.Outcome{
		Kind:     engine.PersonRecognized,
		SecretOK: true,
		Label:    "alice",
	}
	if err := s.RecordOutcome(ctx, recognized); err != nil {
		t.Fatalf("RecordOutcome(recognized) failed: %v", err)
	}

	events, err := s.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("ListEvents returned %d events, want 2", len(events))
	}

	// Newest first: the recognition event was inserted last.
	if events[0].Kind != "person_recognized" || events[0].Label != "alice" {
		t.Errorf("events[0] = %+v, want the recognition event", events[0])
	}
	if events[1].Kind != "secret_rejected" || events[1].PhotoPath != rejected.PhotoPath {
		t.Errorf("events[1] = %+v, want the rejection event", events[1])
	}
	if events[0].OccurredAt.IsZero() {
		t.Error("OccurredAt was not populated by the database")
	}

	// Reset drops the table; listing afterwards must fail.
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := s.ListEvents(ctx, 10); err == nil {
		t.Error("ListEvents succeeded after Reset dropped the table")
	}
}
