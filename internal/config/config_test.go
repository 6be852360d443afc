package config

import "testing"

func TestValidateDefaults(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.Workers = 0
	if err := Validate(cfg); err == nil {
		t.Error("expected error for zero workers")
	}
	cfg.Engine.Workers = 32
	if err := Validate(cfg); err == nil {
		t.Error("expected error for too many workers")
	}
}

func TestValidatePortalURL(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://app.estimateone.com/tenders", true},
		{"https://estimateone.com/tenders?page=2", true},
		{"http://app.estimateone.com/", true},
		{"https://evil.example.com/tenders", false},
		{"https://estimateone.com.evil.example.com/", false},
		{"ftp://app.estimateone.com/tenders", false},
		{"not a url at all ://", false},
		{"https://", false},
	}
	for _, tt := range tests {
		err := ValidatePortalURL(cfg, tt.url)
		if tt.valid && err != nil {
			t.Errorf("ValidatePortalURL(%q) = %v, want nil", tt.url, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidatePortalURL(%q) = nil, want error", tt.url)
		}
	}
}
