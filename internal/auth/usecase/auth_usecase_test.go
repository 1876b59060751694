package usecase

import (
	"testing"
	"time"

	authdomain "runsight-backend/internal/auth/domain"
	authdto "runsight-backend/internal/auth/dto"
	"runsight-backend/internal/auth/repository"
	"runsight-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestUsecase(t *testing.T) AuthUsecase {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
	return NewAuthUsecase(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newTestUsecase(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{
		Email:    "Runner@Example.com",
		Password: "correct-horse",
		Name:     "Runner",
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	// Email stored lowercased.
	assert.Equal(t, "runner@example.com", tokens.User.Email)
	assert.Equal(t, "email", tokens.User.Provider)

	login, err := uc.Login(&authdto.LoginRequest{
		Email:    "runner@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc := newTestUsecase(t)

	req := &authdto.RegisterRequest{Email: "runner@example.com", Password: "correct-horse"}
	_, err := uc.Register(req)
	require.NoError(t, err)

	_, err = uc.Register(req)
	require.Error(t, err)
	assert.Equal(t, "email already registered", err.Error())
}

func TestLoginWrongPassword(t *testing.T) {
	uc := newTestUsecase(t)

	_, err := uc.Register(&authdto.RegisterRequest{Email: "runner@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = uc.Login(&authdto.LoginRequest{Email: "runner@example.com", Password: "wrong-password"})
	require.Error(t, err)
	// Same message as unknown email: nothing is revealed.
	assert.Equal(t, "invalid email or password", err.Error())

	_, err = uc.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())
}

func TestValidateToken(t *testing.T) {
	uc := newTestUsecase(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{Email: "runner@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	user, err := uc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, user.ID)

	_, err = uc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	uc := newTestUsecase(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{Email: "runner@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := uc.RefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, tokens.User.ID, refreshed.User.ID)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	uc := newTestUsecase(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{Email: "runner@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(tokens.RefreshToken))

	_, err = uc.RefreshToken(tokens.RefreshToken)
	assert.Error(t, err)
}
