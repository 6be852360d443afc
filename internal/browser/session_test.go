package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

func TestIsLoginURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://app.estimateone.com/auth/login", true},
		{"https://app.estimateone.com/auth/login?redirect_to=%2Ftenders", true},
		{"https://app.estimateone.com/tenders", false},
		{"https://app.estimateone.com/tenders?next=/auth/login", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isLoginURL(tt.url, "/auth/login"); got != tt.want {
			t.Errorf("isLoginURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestSessionFromLocation(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		// Off the login path means the portal honored the request without
		// bouncing to the credential form.
		{"https://app.estimateone.com/tenders", true},
		{"https://app.estimateone.com/tenders?redirect_to=%2Fauth%2Flogin", true},
		{"https://app.estimateone.com/auth/login", false},
		{"https://app.estimateone.com/auth/login?redirect_to=%2Ftenders", false},
		// A page with no URL has not navigated anywhere yet.
		{"", false},
	}
	for _, tt := range tests {
		if got := sessionFromLocation(tt.url, "/auth/login"); got != tt.want {
			t.Errorf("sessionFromLocation(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClassifyLogin(t *testing.T) {
	tests := []struct {
		name        string
		offPath     bool
		marker      bool
		errBanner   bool
		wantSettled bool
		wantErr     error
	}{
		{"redirect off login path", true, false, false, true, nil},
		{"listing hydrated in place", false, true, false, true, nil},
		{"marker wins over stale banner", false, true, true, true, nil},
		{"inline rejection", false, false, true, true, types.ErrLoginRejected},
		{"still pending", false, false, false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settled, err := classifyLogin(tt.offPath, tt.marker, tt.errBanner)
			if settled != tt.wantSettled {
				t.Errorf("settled = %v, want %v", settled, tt.wantSettled)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionStateTTL(t *testing.T) {
	now := time.Now()
	state := types.SessionState{
		Authenticated: true,
		EstablishedAt: now.Add(-10 * time.Minute),
		TTL:           30 * time.Minute,
	}
	if !state.Valid(now) {
		t.Error("session inside TTL should be valid")
	}
	if state.Valid(now.Add(25 * time.Minute)) {
		t.Error("session past TTL should be invalid")
	}

	state.Authenticated = false
	if state.Valid(now) {
		t.Error("unauthenticated state should never be valid")
	}
}
