package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService([]byte("secret"), time.Hour)

	token, err := svc.Issue("a@x.com")
	require.NoError(t, err)

	email, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestVerifyRejects(t *testing.T) {
	svc := NewTokenService([]byte("secret"), time.Hour)
	token, err := svc.Issue("a@x.com")
	require.NoError(t, err)

	t.Run("Expired", func(t *testing.T) {
		past := NewTokenService([]byte("secret"), time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		old, err := past.Issue("a@x.com")
		require.NoError(t, err)

		_, err = svc.Verify(old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Tampered", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		flip := "A"
		if strings.HasPrefix(parts[2], "A") {
			flip = "B"
		}
		parts[2] = flip + parts[2][1:]

		_, err := svc.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Other secret", func(t *testing.T) {
		other := NewTokenService([]byte("another"), time.Hour)
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
