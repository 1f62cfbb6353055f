package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/config"

	_ "modernc.org/sqlite"
)

func testConfig(t *testing.T, port string) config.Config {
	t.Helper()

	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "roomkeeper.db"))
	t.Setenv("PORT", port)
	t.Setenv("OTEL_EXPORTER", "none")
	t.Setenv("DIGEST_INTERVAL", "0s")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	return cfg
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "roomkeeper "+version {
		t.Errorf("output = %q", got)
	}
}

func TestMigrateCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("DATABASE_PATH", dbPath)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening migrated db: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"bookings", "hotel_closures", "river_job"} {
		var n int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n); err != nil {
			t.Fatalf("querying schema: %v", err)
		}
		if n != 1 {
			t.Errorf("table %s missing after migrate", table)
		}
	}
}

func TestRootCmd_BadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestRun exercises the real run() function end-to-end: OTel, River, HTTP
// server, and graceful shutdown.
func TestRun(t *testing.T) {
	cfg := testConfig(t, "19876")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, cfg, zap.NewNop()) }()

	// Wait for the HTTP server to become ready.
	serverURL := "http://localhost:19876/api/v1"
	ready := false
	for i := 0; i < 50; i++ {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/hotels", nil)
		resp, reqErr := http.DefaultClient.Do(req)
		if reqErr == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ready {
		t.Fatal("server did not start within 5 seconds")
	}

	// Write through the whole store stack and read it back.
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, serverURL+"/hotels", strings.NewReader(`{"name":"Grand"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /hotels failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	req, _ = http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/hotels", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /hotels failed: %v", err)
	}
	var hotels []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&hotels); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(hotels) != 1 {
		t.Errorf("got %d hotels, want 1", len(hotels))
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run() returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run() did not exit within 10 seconds")
	}
}

// TestRun_InvalidDB verifies run() returns an error for an invalid database path.
func TestRun_InvalidDB(t *testing.T) {
	cfg := testConfig(t, "19877")
	cfg.DatabasePath = "/nonexistent/path/db.sqlite"

	if err := run(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid database path, got nil")
	}
}

func TestRun_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t, "19878")
	cfg.RedisAddr = "127.0.0.1:1"

	if err := run(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unreachable redis, got nil")
	}
}
