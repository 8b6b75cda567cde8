package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		first string
		last  string
	}{
		{"priya.sharma@college.edu", "Priya", "Sharma"},
		{"ravi_kumar@college.edu", "Ravi", "Kumar"},
		{"asha@college.edu", "Asha", "User"},
		{"a.b.c@college.edu", "A", "C"},
		{"", "User", "User"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			first, last := DeriveNameFromEmail(tt.email)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
