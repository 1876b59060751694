package usecase

import (
	authdomain "runsight-backend/internal/auth/domain"
	authdto "runsight-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for authentication operations
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	GoogleSignIn(idToken string) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)
}
