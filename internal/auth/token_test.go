package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-12345"
	testUserID = "5b0c7c55-2f47-4f7a-9a2b-4d2f1f4a9e10"
)

var dispatcher = Operator{ID: testUserID, Email: "ops@port.example", Role: RoleDispatcher}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("dispatch-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "dispatch-pass", hashed)

	again, _ := HashPassword("dispatch-pass")
	assert.NotEqual(t, hashed, again)

	assert.True(t, CheckPassword(hashed, "dispatch-pass"))
	assert.False(t, CheckPassword(hashed, "wrong"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleDispatcher))
	assert.False(t, ValidRole("driver"))
	assert.False(t, ValidRole(""))
}

func TestIssuer_Pair(t *testing.T) {
	iss := NewIssuer("access", "refresh")

	pair, err := iss.Pair(dispatcher)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	access, err := iss.Parse(pair.Access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, dispatcher, access.Operator())
	assert.Equal(t, testUserID, access.Subject)
	assert.Equal(t, tokenIssuer, access.Issuer)
	assert.Contains(t, access.Audience, tokenAudience)
	assert.NotEmpty(t, access.ID)
	diff := access.ExpiresAt.Time.Sub(time.Now().Add(AccessTokenTTL)).Abs()
	assert.Less(t, diff, 2*time.Second)

	refresh, err := iss.Parse(pair.Refresh, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, refresh.Kind)
	assert.NotEqual(t, access.ID, refresh.ID)
	diff = refresh.ExpiresAt.Time.Sub(time.Now().Add(RefreshTokenTTL)).Abs()
	assert.Less(t, diff, 2*time.Second)
}

func TestIssuer_KindsDoNotMix(t *testing.T) {
	// One shared secret, so only the kind claim separates the tokens.
	iss := NewIssuer(testSecret, "")

	pair, err := iss.Pair(dispatcher)
	require.NoError(t, err)

	_, err = iss.Parse(pair.Refresh, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = iss.Parse(pair.Access, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestIssuer_RejectsBadOperators(t *testing.T) {
	iss := NewIssuer(testSecret, testSecret)

	_, err := iss.Access(Operator{ID: testUserID, Role: "driver"})
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = iss.Access(Operator{Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewIssuer("", "").Access(dispatcher)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssuer_Parse(t *testing.T) {
	iss := NewIssuer(testSecret, testSecret)
	token, err := iss.Access(dispatcher)
	require.NoError(t, err)

	sign := func(c *Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   testUserID,
			Issuer:    tokenIssuer,
			Audience:  []string{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other", "other").Parse(token, KindAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("invalid.token.format", KindAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		rc := valid()
		rc.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := iss.Parse(sign(&Claims{Role: RoleAdmin, Kind: KindAccess, RegisteredClaims: rc}), KindAccess)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("clock moved past expiry", func(t *testing.T) {
		late := NewIssuer(testSecret, testSecret)
		late.now = func() time.Time { return time.Now().Add(AccessTokenTTL + time.Minute) }
		_, err := late.Parse(token, KindAccess)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		rc := valid()
		rc.Issuer = "someone-else"
		_, err := iss.Parse(sign(&Claims{Role: RoleAdmin, Kind: KindAccess, RegisteredClaims: rc}), KindAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		rc := valid()
		rc.Subject = ""
		_, err := iss.Parse(sign(&Claims{Role: RoleAdmin, Kind: KindAccess, RegisteredClaims: rc}), KindAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := iss.Parse(sign(&Claims{Role: "driver", Kind: KindAccess, RegisteredClaims: valid()}), KindAccess)
		assert.ErrorIs(t, err, ErrUnknownRole)
	})
}
