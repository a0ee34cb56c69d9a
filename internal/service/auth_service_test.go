package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"
	"food-ordering-api/internal/service"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateKey
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

func newAuthService(repo *fakeUserRepo) *service.AuthService {
	return service.NewAuthService(repo, "test-secret", time.Hour)
}

func TestSignupAndLoginRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret", user.Password, "password is stored hashed")

	loggedIn, token, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials, "unknown email gets the same error as a bad password")
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "mallory", "alice@example.com", "other")
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, token, err := svc.Signup(context.Background(), "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	other := service.NewAuthService(repo, "different-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err, "token signed with another secret is rejected")
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	_, _, err = svc.Signup(ctx, "bob", "bob@example.com", "s3cret")
	require.NoError(t, err)

	updated, token, err := svc.UpdateProfile(ctx, user.ID, "alice2", "", "")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email, "empty fields are left alone")

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice2", claims.Username, "fresh token carries the new username")

	_, _, err = svc.UpdateProfile(ctx, user.ID, "", "bob@example.com", "")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	_, _, err = svc.UpdateProfile(ctx, "missing", "x", "", "")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
