package account_test

import (
	"testing"
)

// TestHealthEndpoints verifies both probes against the Postgres-backed stack.
func TestHealthEndpoints(t *testing.T) {
	client := setupStack(t, stackOptions{})

	health, err := client.Liveness(t.Context())
	assertHealthy(t, health, err)

	ready, err := client.Readiness(t.Context())
	assertHealthy(t, ready, err)
	if ready.Checks["database"] != "ok" {
		t.Fatalf("database check = %q", ready.Checks["database"])
	}
}
