package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIdentity() Identity {
	dept := uint(7)
	return Identity{
		UserID:      42,
		Username:    "alice",
		Roles:       []string{"editor"},
		Permissions: []string{"doc:edit", "doc:view"},
		DeptID:      &dept,
		DataScope:   3,
	}
}

func TestIssueAccess_VerifyRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute, 7*24*time.Hour)
	in := sampleIdentity()

	token, err := m.IssueAccess(in)
	require.NoError(t, err)

	claims, err := m.Verify(token, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, in, claims.Identity)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "ts-admin", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 2*time.Second)
}

func TestIssueRefresh_LongerValidityAndSeparateSecret(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute, 7*24*time.Hour)

	refresh, err := m.IssueRefresh(sampleIdentity())
	require.NoError(t, err)

	claims, err := m.Verify(refresh, KindRefresh)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 2*time.Second)

	// 刷新令牌不能当作访问令牌使用，反之亦然
	_, err = m.Verify(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	access, err := m.IssueAccess(sampleIdentity())
	require.NoError(t, err)
	_, err = m.Verify(access, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RefreshSignedWithSuffixedSecret(t *testing.T) {
	m := NewJWTManager("base", time.Minute, time.Hour)
	refresh, err := m.IssueRefresh(sampleIdentity())
	require.NoError(t, err)

	// 只持有基础密钥的人无法验证或伪造刷新令牌
	other := NewJWTManager("base"+RefreshSecretSuffix, time.Minute, time.Hour)
	_, err = other.Verify(refresh, KindAccess)
	assert.NoError(t, err)

	forger := NewJWTManager("base", time.Minute, time.Hour)
	forged, err := forger.IssueAccess(sampleIdentity())
	require.NoError(t, err)
	_, err = m.Verify(forged, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, time.Hour)
	token, err := m.IssueAccess(sampleIdentity())
	require.NoError(t, err)

	_, err = m.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Garbage(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)

	_, err := m.Verify("not.a.token", KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.Verify("", KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)

	claims := JWTClaims{
		Identity: sampleIdentity(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(unsigned, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIdentity_HasRole(t *testing.T) {
	id := sampleIdentity()
	assert.True(t, id.HasRole("editor"))
	assert.False(t, id.HasRole("admin"))
}

func TestParseExpires(t *testing.T) {
	cases := map[string]time.Duration{
		"30s":  30 * time.Second,
		"15m":  15 * time.Minute,
		"2h":   2 * time.Hour,
		"7d":   7 * 24 * time.Hour,
		"15x":  900 * time.Second,
		"m":    DefaultExpires,
		"":     DefaultExpires,
		"-5m":  DefaultExpires,
		"1.5h": DefaultExpires,
		"15M":  DefaultExpires,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseExpires(in), "ParseExpires(%q)", in)
	}
}
