package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Update: UpdateConfig{
			Symbols:  []string{"TCS.NS"},
			Provider: ProviderYahoo,
			SaveDir:  "data",
		},
	}
}

// go test -v --run TestApplyDefaults
func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Update.Provider != ProviderYahoo {
		t.Errorf("provider = %q, want %q", cfg.Update.Provider, ProviderYahoo)
	}
	if cfg.Update.Interval != "1d" {
		t.Errorf("interval = %q, want 1d", cfg.Update.Interval)
	}
	if cfg.Update.ReadDir != cfg.Update.SaveDir {
		t.Errorf("read_dir = %q, should default to save_dir %q", cfg.Update.ReadDir, cfg.Update.SaveDir)
	}
	// Yahoo with no local data fetches the full history, so no default
	// window start is forced on it.
	if cfg.Update.DefaultStart != "" {
		t.Errorf("default_start = %q, want empty for yahoo", cfg.Update.DefaultStart)
	}

	fp := &Config{Update: UpdateConfig{Provider: ProviderFivePaisa}}
	fp.applyDefaults()
	if fp.Update.DefaultStart != DefaultStartDate {
		t.Errorf("fivepaisa default_start = %q, want %q", fp.Update.DefaultStart, DefaultStartDate)
	}
	if cfg.Yahoo.BaseURL != DefaultYahooBaseURL {
		t.Errorf("yahoo base_url = %q", cfg.Yahoo.BaseURL)
	}
	if cfg.Yahoo.Timeout != DefaultHTTPTimeout {
		t.Errorf("yahoo timeout = %v", cfg.Yahoo.Timeout)
	}
}

// go test -v --run TestReadDirOverride
func TestReadDirOverride(t *testing.T) {
	cfg := &Config{Update: UpdateConfig{SaveDir: "out", ReadDir: "in"}}
	cfg.applyDefaults()
	if cfg.Update.ReadDir != "in" {
		t.Errorf("read_dir = %q, explicit value must survive defaults", cfg.Update.ReadDir)
	}
}

// go test -v --run TestValidate
func TestValidate(t *testing.T) {
	t.Run("valid yahoo config", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("no symbols", func(t *testing.T) {
		cfg := validConfig()
		cfg.Update.Symbols = nil
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty symbol list")
		}
	})

	t.Run("bad provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Update.Provider = "bloomberg"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown provider")
		}
	})

	t.Run("fivepaisa requires credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Update.Provider = ProviderFivePaisa
		if err := cfg.Validate(); err == nil {
			t.Error("expected error without brokerage credentials")
		}

		cfg.FivePaisa.ClientCode = "55512345"
		cfg.FivePaisa.UserKey = "key"
		cfg.FivePaisa.ScripMapFile = "scrips.csv"
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("bad start date", func(t *testing.T) {
		cfg := validConfig()
		cfg.Update.Start = "01/02/2024"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for malformed start date")
		}
	})

	t.Run("bad database driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "oracle"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown database driver")
		}
	})
}

// go test -v --run TestStartTime
func TestStartTime(t *testing.T) {
	u := UpdateConfig{Start: "2024-03-01"}
	got, err := u.StartTime()
	if err != nil {
		t.Fatalf("StartTime: %v", err)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartTime = %v, want %v", got, want)
	}

	got, err = UpdateConfig{}.StartTime()
	if err != nil || !got.IsZero() {
		t.Errorf("empty start should be zero time, got %v, %v", got, err)
	}
}

// go test -v --run TestPostgresDSN
func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "localhost", Port: 5432, User: "nse", Password: "pw",
		DBName: "bars", SSLMode: "disable", TimeZone: "UTC",
	}
	want := "host=localhost port=5432 user=nse password=pw dbname=bars sslmode=disable TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}

	admin := cfg.AdminDSN()
	if admin != "host=localhost port=5432 user=nse password=pw dbname=postgres sslmode=disable" {
		t.Errorf("AdminDSN = %q", admin)
	}
}
