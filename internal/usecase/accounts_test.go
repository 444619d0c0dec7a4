package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/security"
	"github.com/legolas182/NatureGlow/internal/testutil"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

func newAccountsFixture(t *testing.T) (*testutil.MemStore, *usecase.Accounts) {
	t.Helper()
	store := testutil.NewMemStore()
	tokens := security.NewTokenIssuer("test-secret", "natureglow", "natureglow-api", time.Hour)
	return store, usecase.NewAccounts(store.Users(), tokens)
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAccountsFixture(t)

	u, err := svc.Register(context.Background(), usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, u.Role)
	assert.True(t, u.Active)
	assert.NotEqual(t, "supersecret", u.PasswordHash)

	token, logged, err := svc.Login(context.Background(), "ana@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, logged.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAccountsFixture(t)

	_, err := svc.Register(context.Background(), usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), usecase.RegisterInput{
		Name: "Other", Email: "ana@example.com", Password: "different1",
	})
	require.ErrorIs(t, err, entity.ErrEmailTaken)
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	store, svc := newAccountsFixture(t)

	_, err := svc.Register(context.Background(), usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ana@example.com", "wrongpass")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "supersecret")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)

	// Deactivated accounts look exactly like bad credentials.
	hash, err := security.HashPassword("supersecret")
	require.NoError(t, err)
	store.PutUser(&entity.User{
		ID: "u-off", Email: "off@example.com", PasswordHash: hash,
		Role: entity.RoleCustomer, Active: false,
	})
	_, _, err = svc.Login(context.Background(), "off@example.com", "supersecret")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

func TestUpdateProfileChangesNameAndPassword(t *testing.T) {
	_, svc := newAccountsFixture(t)

	u, err := svc.Register(context.Background(), usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	caller := entity.Caller{ID: u.ID, Role: entity.RoleCustomer}
	updated, err := svc.UpdateProfile(context.Background(), caller, "Ana María", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)

	_, _, err = svc.Login(context.Background(), "ana@example.com", "supersecret")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "ana@example.com", "newpassword")
	require.NoError(t, err)
}

func TestAdminUserManagement(t *testing.T) {
	_, svc := newAccountsFixture(t)
	admin := entity.Caller{ID: "root", Role: entity.RoleAdmin}
	customer := entity.Caller{ID: "u1", Role: entity.RoleCustomer}

	_, err := svc.ListUsers(context.Background(), customer)
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	created, err := svc.CreateUser(context.Background(), admin, usecase.UserInput{
		Name: "Staff", Email: "staff@example.com", Password: "staffpass1", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, created.Role)

	inactive := false
	updated, err := svc.UpdateUser(context.Background(), admin, created.ID, usecase.UserInput{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	require.NoError(t, svc.DeleteUser(context.Background(), admin, created.ID))
	got, err := svc.GetUser(context.Background(), admin, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active, "delete deactivates instead of removing")
}

func TestEnsureAdminIdempotent(t *testing.T) {
	_, svc := newAccountsFixture(t)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "admin123456"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "admin123456"))

	admin := entity.Caller{ID: "root", Role: entity.RoleAdmin}
	users, err := svc.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, entity.RoleAdmin, users[0].Role)

	// Empty seed config is a no-op.
	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "", ""))
	users, err = svc.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
