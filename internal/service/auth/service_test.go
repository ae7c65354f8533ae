package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/folhaplus/folha-backend-go/internal/domain/auth"
	"github.com/folhaplus/folha-backend-go/internal/domain/user"
	"github.com/folhaplus/folha-backend-go/internal/pkg/jwt"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func newTestAuthService(t *testing.T) auth.Service {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nha-forte"), bcrypt.DefaultCost)
	require.NoError(t, err)
	h := string(hash)

	repo := &fakeUserRepo{users: map[string]user.User{
		"ana@folhaplus.com.br": {ID: "u1", Email: "ana@folhaplus.com.br", Name: "Ana", PasswordHash: &h},
		"sem-senha@folhaplus.com.br": {ID: "u2", Email: "sem-senha@folhaplus.com.br", Name: "Sem Senha"},
	}}
	return NewAuthService(repo, jwt.NewJWTService("test-secret-key-for-jwt", "1h"))
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@folhaplus.com.br",
		Password: "s3nha-forte",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresAt, int64(0))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ana@folhaplus.com.br",
		Password: "errada",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ninguem@folhaplus.com.br",
		Password: "qualquer",
	})
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginPasswordlessAccount(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "sem-senha@folhaplus.com.br",
		Password: "qualquer",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginValidation(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email"})
	require.Error(t, err)
}
