package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail      *models.User
	findByEmailErr   error
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "college-adp-api",
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "123", Email: "hod@college.edu", FullName: "Head", PasswordHash: string(password), Active: true, Role: models.RoleHOD}}
	svc := newTestAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "hod@college.edu", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, models.RoleHOD, res.User.Role)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "123", claims.UserID)
	assert.Equal(t, "Head", claims.FullName)
	assert.Equal(t, "college-adp-api", claims.Issuer)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "123", Email: "user@college.edu", PasswordHash: string(password), Active: false}}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@college.edu", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	svc := newTestAuthService(&mockAuthRepo{userByEmail: &models.User{ID: "1", PasswordHash: string(password), Active: true, Role: models.RoleStaff}})
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "staff@college.edu", Password: "wrong"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	svc = newTestAuthService(&mockAuthRepo{findByEmailErr: sql.ErrNoRows})
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ghost@college.edu", Password: "password"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "password"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})
	issued := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	token, err := svc.generateAccessToken(&models.User{ID: "u1", Role: models.RoleStudent}, issued)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(30 * time.Minute) }
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, claims.Role)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: "u1", Role: models.RoleHOD})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}
