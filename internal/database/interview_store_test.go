package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
)

func TestValidateIdentifiers(t *testing.T) {
	const validID = "64a1f0b2c3d4e5f601234567"

	tests := []struct {
		name        string
		interviewID string
		userID      string
		wantKind    apperr.Kind
	}{
		{"valid", validID, "user-1", ""},
		{"short hex", "abc123", "user-1", apperr.KindInvalidIdentifier},
		{"non-hex", "zzzzzzzzzzzzzzzzzzzzzzzz", "user-1", apperr.KindInvalidIdentifier},
		{"empty interview id", "", "user-1", apperr.KindInvalidIdentifier},
		{"blank user id", validID, "   ", apperr.KindInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifiers(tt.interviewID, tt.userID)
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}
