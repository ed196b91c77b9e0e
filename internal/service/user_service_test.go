package service_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/repository/memory"
	"github.com/peanutradio/shopmall-api/internal/service"
)

var testSecret = []byte("user-service-test-secret")

func newUserService() (*service.UserService, *memory.UserRepo) {
	repo := memory.NewUserRepo()
	return service.NewUserService(repo, testSecret), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	password := gofakeit.Password(true, true, true, false, false, 12)
	user, err := svc.Register(ctx, "  Kim@Example.COM ", " 김철수 ", password, domain.UserTypeCustomer, " Seoul ")
	require.NoError(t, err)

	assert.Equal(t, "kim@example.com", user.Email)
	assert.Equal(t, "김철수", user.Name)
	assert.Equal(t, "Seoul", user.Address)
	assert.False(t, user.ID.IsZero())

	// stored value is a hash, not the plaintext
	assert.NotEqual(t, password, user.Password)
	assert.NotEmpty(t, user.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	email := gofakeit.Email()
	_, err := svc.Register(ctx, email, gofakeit.Name(), "password1", domain.UserTypeCustomer, "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, email, gofakeit.Name(), "password2", domain.UserTypeCustomer, "")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 12)
	registered, err := svc.Register(ctx, email, gofakeit.Name(), password, domain.UserTypeCustomer, "")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, email, password)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// the token is HS256-signed and carries the user id as subject
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	email := gofakeit.Email()
	_, err := svc.Register(ctx, email, gofakeit.Name(), "correct-password", domain.UserTypeCustomer, "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, email, "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	_, _, err := svc.Login(ctx, gofakeit.Email(), "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateUser_PasswordRehash(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	email := gofakeit.Email()
	user, err := svc.Register(ctx, email, gofakeit.Name(), "old-password", domain.UserTypeCustomer, "")
	require.NoError(t, err)

	newPassword := "new-password"
	updated, err := svc.Update(ctx, user.ID, service.UpdateUserInput{Password: &newPassword})
	require.NoError(t, err)
	assert.NotEqual(t, user.Password, updated.Password)

	_, _, err = svc.Login(ctx, email, "old-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, email, newPassword)
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	user, err := svc.Register(ctx, gofakeit.Email(), gofakeit.Name(), "password", domain.UserTypeAdmin, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = svc.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = svc.Delete(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
