package middleware

import (
	"testing"

	"github.com/trainsapp/trains-backend/internal/models"
)

func TestHasRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required []string
		want     bool
	}{
		{"admin passes admin gate", models.RoleAdmin, []string{models.RoleAdmin}, true},
		{"user fails admin gate", models.RoleUser, []string{models.RoleAdmin}, false},
		{"any of several", models.RoleUser, []string{models.RoleAdmin, models.RoleUser}, true},
		{"empty role", "", []string{models.RoleAdmin}, false},
		{"no requirements", models.RoleAdmin, nil, false},
		{"case sensitive", "admin", []string{models.RoleAdmin}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasRole(tt.role, tt.required...); got != tt.want {
				t.Fatalf("HasRole(%q, %v) = %v, want %v", tt.role, tt.required, got, tt.want)
			}
		})
	}
}
