package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/auth"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/models"
	"github.com/xinv4sionx/marketplace/server/internal/repository"
)

func newAuthService(t *testing.T, users UserRepository) (AuthService, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, auth.NewMemoryRevoker(), logger.NewTestLogger(t)), tokens
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	e, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	assert.Equal(t, code, e.Code)
}

func TestAuthService_SignupSeller(t *testing.T) {
	store := newStore(t)
	svc, tokens := newAuthService(t, store)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, models.SignupRequest{Phone: "0700", Password: "pw", Name: "Wanjiku", Role: "seller"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, resp.Role)
	require.NotNil(t, resp.StoreName)
	assert.Equal(t, "My Store", *resp.StoreName)

	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)

	u, err := store.FindUserByID(ctx, claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, "Nairobi", u.Town)
	assert.NotEqual(t, "pw", u.PasswordHash)
	require.NotNil(t, u.Availability)
	assert.Equal(t, models.StatusOnline, u.Availability.Status)
	assert.Nil(t, u.Availability.BackAt)
}

func TestAuthService_SignupBuyer(t *testing.T) {
	store := newStore(t)
	svc, _ := newAuthService(t, store)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		Phone: "0711", Password: "pw", Name: "Otieno", Role: "buyer", StoreName: "ignored", Town: "Mombasa",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.StoreName)

	u, err := store.FindUserByPhone(context.Background(), "0711")
	require.NoError(t, err)
	assert.Equal(t, "Mombasa", u.Town)
	assert.Nil(t, u.Availability)
}

func TestAuthService_SignupRejects(t *testing.T) {
	store := newStore(t)
	svc, _ := newAuthService(t, store)
	ctx := context.Background()

	_, err := svc.Signup(ctx, models.SignupRequest{Phone: "0700", Password: "pw", Name: "A"})
	requireCode(t, err, apperr.CodeValidation)

	_, err = svc.Signup(ctx, models.SignupRequest{Phone: "0700", Password: "pw", Name: "A", Role: "admin"})
	requireCode(t, err, apperr.CodeValidation)

	_, err = svc.Signup(ctx, models.SignupRequest{Phone: "0700", Password: "pw", Name: "A", Role: "buyer"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, models.SignupRequest{Phone: "0700", Password: "pw2", Name: "B", Role: "seller"})
	requireCode(t, err, apperr.CodeDuplicatePhone)
}

func TestAuthService_SignupStorageFailure(t *testing.T) {
	users := new(MockUserRepository)
	users.On("InsertUser", mock.Anything, mock.AnythingOfType("models.User")).Return(errors.New("disk full"))
	svc, _ := newAuthService(t, users)

	_, err := svc.Signup(context.Background(), models.SignupRequest{Phone: "0700", Password: "pw", Name: "A", Role: "buyer"})
	requireCode(t, err, apperr.CodeStorageFailed)
	users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens := newAuthService(t, newStore(t))
	ctx := context.Background()

	_, err := svc.Signup(ctx, models.SignupRequest{Phone: "0700", Password: "pw", Name: "Wanjiku", Role: "seller", StoreName: "Mama Mboga"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Phone: "0700", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Wanjiku", resp.Name)
	require.NotNil(t, resp.StoreName)
	assert.Equal(t, "Mama Mboga", *resp.StoreName)
	_, err = tokens.Parse(resp.Token)
	assert.NoError(t, err)

	_, err = svc.Login(ctx, models.LoginRequest{Phone: "0700", Password: "wrong"})
	requireCode(t, err, apperr.CodeUnauthorized)
	_, err = svc.Login(ctx, models.LoginRequest{Phone: "0799", Password: "pw"})
	requireCode(t, err, apperr.CodeUnauthorized)
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	svc, _ := newAuthService(t, newStore(t))
	ctx := context.Background()

	resp, err := svc.Signup(ctx, models.SignupRequest{Phone: "0700", Password: "pw", Name: "Otieno", Role: "buyer"})
	require.NoError(t, err)

	sess, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Otieno", sess.User.Name)
	assert.NotEmpty(t, sess.TokenID)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	require.NoError(t, svc.Logout(ctx, sess))
	_, err = svc.Authenticate(ctx, resp.Token)
	requireCode(t, err, apperr.CodeUnauthorized)

	_, err = svc.Authenticate(ctx, "")
	requireCode(t, err, apperr.CodeUnauthorized)
	_, err = svc.Authenticate(ctx, "not-a-token")
	requireCode(t, err, apperr.CodeUnauthorized)
}

func TestAuthService_AuthenticateDeletedUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindUserByID", mock.Anything, "gone").Return(models.User{}, repository.ErrNotFound)
	svc, tokens := newAuthService(t, users)

	tok, err := tokens.Issue("gone", models.RoleBuyer)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), tok)
	requireCode(t, err, apperr.CodeUnauthorized)
	e, _ := apperr.As(err)
	assert.Equal(t, "Invalid user", e.Message)
}

// brokenSigner verifies tokens normally but cannot sign new ones.
type brokenSigner struct {
	*auth.TokenManager
}

func (brokenSigner) Issue(string, models.Role) (string, error) {
	return "", errors.New("signing key unavailable")
}

func TestAuthService_SigningFailureIsServerError(t *testing.T) {
	store := newStore(t)
	svc := NewAuthService(store, brokenSigner{auth.NewTokenManager("k", time.Hour)}, auth.NewMemoryRevoker(), logger.NewNoOpLogger())

	_, err := svc.Signup(context.Background(), models.SignupRequest{Phone: "0700", Password: "pw", Name: "A", Role: "buyer"})
	requireCode(t, err, apperr.CodeInternal)
	e, _ := apperr.As(err)
	assert.Equal(t, 500, e.Status())
}
