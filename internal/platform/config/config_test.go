package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error when JWT_SECRET is empty")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("API_PORT", "")
	os.Unsetenv("API_PORT")
	os.Unsetenv("PORT")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.JWTExp != time.Hour {
		t.Errorf("JWTExp = %v, want 1h", cfg.JWTExp)
	}
	if cfg.LoginMaxAttempts != 5 {
		t.Errorf("LoginMaxAttempts = %d, want 5", cfg.LoginMaxAttempts)
	}
	if cfg.DBConnStr == "" {
		t.Error("expected a connection string built from DB_* parts")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "JWT_SECRET=fromfile\nJWT_EXPIRATION=30m\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("JWT_EXPIRATION")
	os.Unsetenv("CORS_ALLOWED_ORIGINS")
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("JWT_EXPIRATION")
		os.Unsetenv("CORS_ALLOWED_ORIGINS")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(cfg.JWTKey) != "fromfile" {
		t.Errorf("JWTKey = %q", cfg.JWTKey)
	}
	if cfg.JWTExp != 30*time.Minute {
		t.Errorf("JWTExp = %v", cfg.JWTExp)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected an error for an explicit env file that does not exist")
	}
}

func TestDatabaseURLWins(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/hub")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBConnStr != "postgres://u:p@db:5432/hub" {
		t.Errorf("DBConnStr = %q", cfg.DBConnStr)
	}
}
