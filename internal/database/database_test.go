package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dbsmedya/crmchart/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.DatabaseConfig
		expected string
	}{
		{
			name: "basic DSN",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "crm",
				Password: "secret",
				Database: "crm_metadata",
				TLS:      "preferred",
			},
			expected: "crm:secret@tcp(localhost:3306)/crm_metadata?parseTime=true&tls=preferred",
		},
		{
			name: "DSN without database",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "crm",
				Password: "secret",
				TLS:      "preferred",
			},
			expected: "crm:secret@tcp(localhost:3306)/?parseTime=true&tls=preferred",
		},
		{
			name: "Empty password",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "crm",
				Database: "crm_metadata",
				TLS:      "disable",
			},
			expected: "crm:@tcp(localhost:3306)/crm_metadata?parseTime=true&tls=false",
		},
		{
			name: "Non-standard port with TLS required",
			cfg: &config.DatabaseConfig{
				Host:     "metadata.internal",
				Port:     33060,
				User:     "reader",
				Password: "p@ss!w0rd#123",
				Database: "crm_metadata",
				TLS:      "required",
			},
			expected: "reader:p@ss!w0rd#123@tcp(metadata.internal:33060)/crm_metadata?parseTime=true&tls=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildDSN(tt.cfg)
			if result != tt.expected {
				t.Errorf("BuildDSN() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestBuildDSN_TLSVariants(t *testing.T) {
	tests := []struct {
		name        string
		tlsValue    string
		expectedTLS string
	}{
		{name: "TLS preferred", tlsValue: "preferred", expectedTLS: "tls=preferred"},
		{name: "TLS disable", tlsValue: "disable", expectedTLS: "tls=false"},
		{name: "TLS required", tlsValue: "required", expectedTLS: "tls=true"},
		{name: "TLS empty defaults to preferred", tlsValue: "", expectedTLS: "tls=preferred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.DatabaseConfig{Host: "localhost", Port: 3306, User: "crm", TLS: tt.tlsValue}
			result := BuildDSN(cfg)
			if !strings.Contains(result, tt.expectedTLS) {
				t.Errorf("BuildDSN() = %q, should contain %q", result, tt.expectedTLS)
			}
		})
	}
}

func TestNewManager(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: 3306}

	manager, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	if manager.config != cfg {
		t.Error("manager.config should point to provided config")
	}
	if manager.DB != nil {
		t.Error("DB should be nil before Connect()")
	}
	if manager.maxRetries != DefaultMaxRetries {
		t.Errorf("maxRetries = %d, expected %d", manager.maxRetries, DefaultMaxRetries)
	}
}

func TestNewManager_NilConfig(t *testing.T) {
	if _, err := NewManager(nil); err == nil {
		t.Error("NewManager(nil) should return an error")
	}
}

func TestManagerCloseWithoutConnect(t *testing.T) {
	manager, _ := NewManager(&config.DatabaseConfig{Host: "localhost"})

	if err := manager.Close(); err != nil {
		t.Errorf("Close() returned error for unconnected manager: %v", err)
	}
	if err := manager.Ping(context.Background()); err == nil {
		t.Error("Ping() should fail for unconnected manager")
	}
}

func newTestManager(t *testing.T, open func(dsn string) (*sql.DB, error)) *Manager {
	t.Helper()
	manager, err := NewManager(&config.DatabaseConfig{
		Host:               "localhost",
		Port:               3306,
		User:               "crm",
		Database:           "crm_metadata",
		MaxConnections:     4,
		MaxIdleConnections: 2,
	})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	manager.initialBackoff = time.Millisecond
	manager.open = open
	return manager
}

func TestConnect(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	mock.ExpectClose()

	var gotDSN string
	manager := newTestManager(t, func(dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return db, nil
	})

	if err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if gotDSN != "crm:@tcp(localhost:3306)/crm_metadata?parseTime=true&tls=preferred" {
		t.Errorf("unexpected DSN %q", gotDSN)
	}
	if err := manager.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
	if err := manager.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConnect_RetriesThenFails(t *testing.T) {
	attempts := 0
	manager := newTestManager(t, func(dsn string) (*sql.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	})

	err := manager.Connect(context.Background())
	if err == nil {
		t.Fatal("Connect() should fail when every attempt fails")
	}
	if attempts != DefaultMaxRetries {
		t.Errorf("attempts = %d, expected %d", attempts, DefaultMaxRetries)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error should carry the last failure, got %v", err)
	}
	if manager.DB != nil {
		t.Error("DB should stay nil after a failed Connect()")
	}
}

func TestConnect_RecoversAfterRetry(t *testing.T) {
	attempts := 0
	manager := newTestManager(t, func(dsn string) (*sql.DB, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("dial timeout")
		}
		db, _, err := sqlmock.New()
		return db, err
	})

	if err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, expected 2", attempts)
	}
}

func TestConnect_ContextCanceled(t *testing.T) {
	manager := newTestManager(t, func(dsn string) (*sql.DB, error) {
		return nil, errors.New("dial timeout")
	})
	manager.initialBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := manager.Connect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Connect() error = %v, expected context.Canceled", err)
	}
}
