package rest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdeck/internal/domain"
)

var testSecret = []byte("test-secret")

func TestIssueToken_RoundTrip(t *testing.T) {
	// Setup
	actor := domain.Actor{ID: "u1", Role: domain.RoleMember}

	// Execute
	token, err := IssueToken(testSecret, actor, time.Now(), time.Hour)
	require.NoError(t, err)
	parsed, err := ParseToken(testSecret, token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, actor, parsed)
}

func TestParseToken_Rejects(t *testing.T) {
	valid := func() string {
		token, err := IssueToken(testSecret, domain.Actor{ID: "u1", Role: domain.RoleAdmin}, time.Now(), time.Hour)
		require.NoError(t, err)
		return token
	}
	signed := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{
			name:   "wrong secret",
			secret: []byte("other-secret"),
			token:  valid(),
		},
		{
			name:   "expired",
			secret: testSecret,
			token: func() string {
				token, err := IssueToken(testSecret, domain.Actor{ID: "u1", Role: domain.RoleAdmin}, time.Now().Add(-2*time.Hour), time.Hour)
				require.NoError(t, err)
				return token
			}(),
		},
		{
			name:   "missing subject",
			secret: testSecret,
			token:  signed(jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"role": "admin", "exp": future}),
		},
		{
			name:   "unknown role",
			secret: testSecret,
			token:  signed(jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "u1", "role": "owner", "exp": future}),
		},
		{
			name:   "unsigned",
			secret: testSecret,
			token:  signed(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": future}),
		},
		{
			name:   "garbage",
			secret: testSecret,
			token:  "not-a-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestToken_NoSecret(t *testing.T) {
	_, issueErr := IssueToken(nil, domain.Actor{ID: "u1", Role: domain.RoleMember}, time.Now(), time.Hour)
	_, parseErr := ParseToken(nil, "x")

	assert.ErrorIs(t, issueErr, ErrNoSecret)
	assert.ErrorIs(t, parseErr, ErrNoSecret)
}
