package services

import (
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testInviteCode = "friends-and-family"

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

type AuthServiceSuite struct {
	suite.Suite
	db       *database.DB
	userRepo repositories.UserRepositoryInterface
	service  AuthServiceInterface
}

func (s *AuthServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.userRepo = repositories.NewUserRepository(s.db.DB)

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	jwtConfig := &config.JWTConfig{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "fintrack-test",
	}

	s.service = NewAuthService(
		s.userRepo,
		repositories.NewRefreshTokenRepository(s.db.DB),
		repositories.NewBlacklistedTokenRepository(s.db.DB),
		NewPasswordService(),
		NewTokenService(jwtConfig),
		testInviteCode,
		slog.Default(),
	)
}

func (s *AuthServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AuthServiceSuite) registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:      "new@example.com",
		Password:   "correct-horse",
		Name:       "New User",
		InviteCode: testInviteCode,
	}
}

func (s *AuthServiceSuite) TestRegister() {
	user, err := s.service.Register(s.registerRequest(), "127.0.0.1")
	s.NoError(err)
	s.Equal("new@example.com", user.Email)
	s.NotEqual("correct-horse", user.PasswordHash)
	s.True(user.MonthlySavingsGoal.IsZero())
}

func (s *AuthServiceSuite) TestRegister_RejectsWrongInviteCode() {
	req := s.registerRequest()
	req.InviteCode = "guessing"

	_, err := s.service.Register(req, "127.0.0.1")
	s.ErrorIs(err, ErrInvalidInviteCode)
}

func (s *AuthServiceSuite) TestRegister_RejectsDuplicateEmail() {
	_, err := s.service.Register(s.registerRequest(), "127.0.0.1")
	s.NoError(err)

	_, err = s.service.Register(s.registerRequest(), "127.0.0.1")
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *AuthServiceSuite) TestLogin() {
	_, err := s.service.Register(s.registerRequest(), "127.0.0.1")
	s.NoError(err)

	tokens, user, err := s.service.Login(&dto.LoginRequest{
		Email:    "new@example.com",
		Password: "correct-horse",
	}, "127.0.0.1")
	s.NoError(err)
	s.NotEmpty(tokens.AccessToken)
	s.NotEmpty(tokens.RefreshToken)
	s.Equal("Bearer", tokens.TokenType)
	s.Equal("new@example.com", user.Email)
	s.NotNil(user.LastLoginAt)
}

func (s *AuthServiceSuite) TestLogin_WrongPassword() {
	_, err := s.service.Register(s.registerRequest(), "127.0.0.1")
	s.NoError(err)

	_, _, err = s.service.Login(&dto.LoginRequest{
		Email:    "new@example.com",
		Password: "wrong",
	}, "127.0.0.1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLogin_UnknownEmailLooksLikeBadCredentials() {
	_, _, err := s.service.Login(&dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	}, "127.0.0.1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLogin_LocksAfterRepeatedFailures() {
	_, err := s.service.Register(s.registerRequest(), "127.0.0.1")
	s.NoError(err)

	for i := 0; i < models.MaxFailedLoginAttempts; i++ {
		_, _, err := s.service.Login(&dto.LoginRequest{
			Email:    "new@example.com",
			Password: "wrong",
		}, "127.0.0.1")
		s.ErrorIs(err, ErrInvalidCredentials)
	}

	// Even the correct password is rejected once the account is locked
	_, _, err = s.service.Login(&dto.LoginRequest{
		Email:    "new@example.com",
		Password: "correct-horse",
	}, "127.0.0.1")
	s.ErrorIs(err, ErrAccountLocked)
}

func (s *AuthServiceSuite) TestRefreshTokens_RotatesToken() {
	_, err := s.service.Register(s.registerRequest(), "127.0.0.1")
	s.NoError(err)

	tokens, _, err := s.service.Login(&dto.LoginRequest{
		Email:    "new@example.com",
		Password: "correct-horse",
	}, "127.0.0.1")
	s.NoError(err)

	refreshed, err := s.service.RefreshTokens(tokens.RefreshToken, "127.0.0.1")
	s.NoError(err)
	s.NotEmpty(refreshed.AccessToken)
	s.NotEqual(tokens.RefreshToken, refreshed.RefreshToken)

	// The old refresh token was revoked by the rotation
	_, err = s.service.RefreshTokens(tokens.RefreshToken, "127.0.0.1")
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceSuite) TestRefreshTokens_RejectsGarbage() {
	_, err := s.service.RefreshTokens("not-a-jwt", "127.0.0.1")
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceSuite) TestUpdateSavingsGoal() {
	user, err := s.service.Register(s.registerRequest(), "127.0.0.1")
	s.NoError(err)

	updated, err := s.service.UpdateSavingsGoal(user.ID, decimal.NewFromInt(500))
	s.NoError(err)
	s.True(updated.MonthlySavingsGoal.Equal(decimal.NewFromInt(500)))

	_, err = s.service.UpdateSavingsGoal(user.ID, decimal.NewFromInt(-1))
	s.ErrorIs(err, ErrInvalidSavingsGoal)
}
