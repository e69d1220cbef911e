package moderation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateReason(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		valid  bool
	}{
		{"empty", "", false},
		{"simple", "off-topic content", true},
		{"at bound", strings.Repeat("a", MaxReasonLength), true},
		{"over bound", strings.Repeat("a", MaxReasonLength+1), false},
		{"non-ascii at bound", strings.Repeat("අ", MaxReasonLength), true},
		{"non-ascii over bound", strings.Repeat("අ", MaxReasonLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReason(tt.reason)
			if tt.valid && err != nil {
				t.Errorf("validateReason(%q) = %v, want nil", tt.reason, err)
			}
			if !tt.valid {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("validateReason(%q) = %v, want ValidationError", tt.reason, err)
				}
			}
		})
	}
}
