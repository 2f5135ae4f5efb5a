package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-tokens"

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		secret    string
		expiry    time.Duration
	}{
		{
			name:      "Valid token generation",
			sessionID: "2b7e1516-28ae-4d2a-a6d2-ab3f0c1a9e11",
			secret:    testSecret,
			expiry:    24 * time.Hour,
		},
		{
			name:      "Short lived token",
			sessionID: "session-short",
			secret:    testSecret,
			expiry:    time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateSessionToken(tt.sessionID, tt.secret, tt.expiry)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestValidateSessionToken(t *testing.T) {
	sessionID := "session-123"

	token, err := GenerateSessionToken(sessionID, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateSessionToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, sessionID, claims.SessionID)
				assert.Equal(t, sessionID, claims.Subject)
			}
		})
	}
}

func TestExpiredSessionToken(t *testing.T) {
	token, err := GenerateSessionToken("session-old", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestSessionTokenClaims(t *testing.T) {
	token, err := GenerateSessionToken("session-42", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "beautycart", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
}
