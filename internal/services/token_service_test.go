package services

import (
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestTokenService(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

type TokenServiceSuite struct {
	suite.Suite
	service TokenServiceInterface
	user    *models.User
}

func (s *TokenServiceSuite) SetupTest() {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.service = NewTokenService(&config.JWTConfig{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "fintrack-test",
	})

	s.user = &models.User{
		ID:    uuid.New(),
		Email: "tokens@example.com",
	}
}

func (s *TokenServiceSuite) TestAccessTokenRoundTrip() {
	token, expiresAt, err := s.service.GenerateAccessToken(s.user)
	s.NoError(err)
	s.NotEmpty(token)
	s.True(expiresAt.After(time.Now()))

	claims, err := s.service.ValidateAccessToken(token)
	s.NoError(err)
	s.Equal(s.user.ID.String(), claims.UserID)
	s.Equal(s.user.Email, claims.Email)
	s.Equal(TokenTypeAccess, claims.TokenType)
	s.NotEmpty(claims.ID)
}

func (s *TokenServiceSuite) TestRefreshTokenRoundTrip() {
	token, _, err := s.service.GenerateRefreshToken(s.user.ID)
	s.NoError(err)

	claims, err := s.service.ValidateRefreshToken(token)
	s.NoError(err)
	s.Equal(s.user.ID.String(), claims.UserID)
	s.Equal(TokenTypeRefresh, claims.TokenType)
}

func (s *TokenServiceSuite) TestTokenTypesAreNotInterchangeable() {
	accessToken, _, err := s.service.GenerateAccessToken(s.user)
	s.NoError(err)
	refreshToken, _, err := s.service.GenerateRefreshToken(s.user.ID)
	s.NoError(err)

	_, err = s.service.ValidateRefreshToken(accessToken)
	s.Error(err)
	_, err = s.service.ValidateAccessToken(refreshToken)
	s.Error(err)
}

func (s *TokenServiceSuite) TestValidateRejectsForeignSignature() {
	otherPrivate, otherPublic, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	other := NewTokenService(&config.JWTConfig{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		PrivateKey:           otherPrivate,
		PublicKey:            otherPublic,
		Issuer:               "fintrack-test",
	})

	token, _, err := other.GenerateAccessToken(s.user)
	s.NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.Error(err)
}

func (s *TokenServiceSuite) TestValidateRejectsWrongIssuer() {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	other := NewTokenService(&config.JWTConfig{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "someone-else",
	})

	// Same keys, different issuer claim
	withSameKeys := NewTokenService(&config.JWTConfig{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "fintrack-test",
	})

	token, _, err := other.GenerateAccessToken(s.user)
	s.NoError(err)

	_, err = withSameKeys.ValidateAccessToken(token)
	s.Error(err)
}

func (s *TokenServiceSuite) TestExtractTokenFromHeader() {
	token, err := s.service.ExtractTokenFromHeader("Bearer abc.def.ghi")
	s.NoError(err)
	s.Equal("abc.def.ghi", token)

	token, err = s.service.ExtractTokenFromHeader("bearer abc.def.ghi")
	s.NoError(err)
	s.Equal("abc.def.ghi", token)

	_, err = s.service.ExtractTokenFromHeader("")
	s.Error(err)

	_, err = s.service.ExtractTokenFromHeader("Basic abc")
	s.Error(err)
}

func (s *TokenServiceSuite) TestGetJTIAndExpiry() {
	token, expiresAt, err := s.service.GenerateAccessToken(s.user)
	s.NoError(err)

	jti, err := s.service.GetJTI(token)
	s.NoError(err)
	s.NotEmpty(jti)

	expiry, err := s.service.GetTokenExpiry(token)
	s.NoError(err)
	s.WithinDuration(expiresAt, expiry, time.Second)
}
