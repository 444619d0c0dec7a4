package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legolas182/NatureGlow/internal/entity"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", "natureglow", "natureglow-api", time.Hour)
	u := &entity.User{ID: "u1", Role: entity.RoleAdmin}

	raw, err := issuer.Issue(u)
	require.NoError(t, err)

	caller, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", caller.ID)
	assert.Equal(t, entity.RoleAdmin, caller.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	good := NewTokenIssuer("secret", "natureglow", "natureglow-api", time.Hour)
	bad := NewTokenIssuer("other", "natureglow", "natureglow-api", time.Hour)

	raw, err := good.Issue(&entity.User{ID: "u1", Role: entity.RoleCustomer})
	require.NoError(t, err)

	_, err = bad.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignIssuerOrAudience(t *testing.T) {
	mine := NewTokenIssuer("secret", "natureglow", "natureglow-api", time.Hour)
	foreign := NewTokenIssuer("secret", "someone-else", "natureglow-api", time.Hour)
	otherAud := NewTokenIssuer("secret", "natureglow", "another-api", time.Hour)

	raw, err := foreign.Issue(&entity.User{ID: "u1", Role: entity.RoleCustomer})
	require.NoError(t, err)
	_, err = mine.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	raw, err = otherAud.Issue(&entity.User{ID: "u1", Role: entity.RoleCustomer})
	require.NoError(t, err)
	_, err = mine.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", "natureglow", "natureglow-api", -time.Hour)

	raw, err := issuer.Issue(&entity.User{ID: "u1", Role: entity.RoleCustomer})
	require.NoError(t, err)

	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", "natureglow", "natureglow-api", time.Hour)
	_, err := issuer.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}
