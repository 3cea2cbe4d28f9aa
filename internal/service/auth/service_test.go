package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() (auth.AuthService, *servicetest.UserRepo, *jwt.JWTService) {
	users := servicetest.NewUserRepo()
	jwtService := jwt.NewJWTService(servicetest.Secret, time.Hour)
	return NewAuthService(servicetest.Tx{}, users, jwtService), users, jwtService
}

func TestRegister_Success(t *testing.T) {
	// Setup
	svc, users, _ := newTestAuthService()

	// Act
	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "  Asha@Example.com ",
		Password: "password123",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", resp.Email)
	assert.Equal(t, "employee", resp.Role)

	stored, err := users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	req := auth.RegisterRequest{Email: "asha@example.com", Password: "password123"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), req)

	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Email: "nope", Password: "short"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestLogin_Success(t *testing.T) {
	svc, users, jwtService := newTestAuthService()
	registered, err := svc.Register(context.Background(), auth.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)
	promoted := users.Users[registered.ID]
	promoted.Role = user.RoleAdmin
	users.Users[registered.ID] = promoted

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ASHA@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
	assert.Equal(t, "admin", resp.User.Role)

	decoded, err := jwtService.JWTAuth().Decode(resp.Token)
	require.NoError(t, err)
	role, _ := decoded.Get("role")
	assert.Equal(t, "admin", role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, err := svc.Register(context.Background(), auth.RegisterRequest{Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "asha@example.com", Password: "wrong-password"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, jwtService := newTestAuthService()
	_, err := svc.Register(context.Background(), auth.RegisterRequest{Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Token))

	assert.True(t, jwtService.IsTokenRevoked(resp.Token))
	assert.ErrorIs(t, svc.Logout(context.Background(), ""), auth.ErrInvalidToken)
}
