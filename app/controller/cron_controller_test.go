package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCronEndpointsRequireBearerSecret(t *testing.T) {
	t.Setenv("CRON_SECRET", "s3cret")
	c := NewCronController(nil, nil)

	tests := []struct {
		name       string
		method     string
		authHeader string
		wantStatus int
	}{
		{"missing header", http.MethodGet, "", http.StatusUnauthorized},
		{"wrong secret", http.MethodGet, "Bearer wrong", http.StatusUnauthorized},
		{"missing bearer prefix", http.MethodGet, "s3cret", http.StatusUnauthorized},
		{"wrong method", http.MethodPost, "Bearer s3cret", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/api/cron/weekly-summary", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			c.WeeklySummary(w, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCronEndpointsRefuseWhenSecretUnset(t *testing.T) {
	t.Setenv("CRON_SECRET", "")
	c := NewCronController(nil, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/cron/monthly-summary", nil)
	r.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	c.MonthlySummary(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
