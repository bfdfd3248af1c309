package repositories

import (
	"testing"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestRefreshTokenRepository(t *testing.T) {
	suite.Run(t, new(RefreshTokenRepositorySuite))
}

type RefreshTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo RefreshTokenRepositoryInterface
	user *models.User
}

func (s *RefreshTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewRefreshTokenRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "tokens@example.com")
}

func (s *RefreshTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *RefreshTokenRepositorySuite) createToken(hash string, expiresAt time.Time) *models.RefreshToken {
	token := &models.RefreshToken{
		UserID:    s.user.ID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	s.Require().NoError(s.repo.Create(token))
	return token
}

func (s *RefreshTokenRepositorySuite) TestCreateAndGetByTokenHash() {
	token := s.createToken("hash-1", time.Now().Add(time.Hour))

	found, err := s.repo.GetByTokenHash("hash-1")
	s.NoError(err)
	s.Equal(token.ID, found.ID)
	s.True(found.IsValid())

	_, err = s.repo.GetByTokenHash("missing")
	s.Equal(ErrRefreshTokenNotFound, err)
}

func (s *RefreshTokenRepositorySuite) TestRevoke() {
	token := s.createToken("hash-1", time.Now().Add(time.Hour))

	s.NoError(s.repo.Revoke(token.ID))

	revoked, err := s.repo.GetByTokenHash("hash-1")
	s.NoError(err)
	s.True(revoked.IsRevoked())
	s.False(revoked.IsValid())

	// Revoking an already-revoked token is reported as not found
	s.Equal(ErrRefreshTokenNotFound, s.repo.Revoke(token.ID))
	s.Equal(ErrRefreshTokenNotFound, s.repo.Revoke(uuid.New()))
}

func (s *RefreshTokenRepositorySuite) TestRevokeAllForUser() {
	s.createToken("hash-1", time.Now().Add(time.Hour))
	s.createToken("hash-2", time.Now().Add(time.Hour))

	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	otherToken := &models.RefreshToken{
		UserID:    other.ID,
		TokenHash: "hash-3",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.repo.Create(otherToken))

	s.NoError(s.repo.RevokeAllForUser(s.user.ID))

	active, err := s.repo.GetActiveByUserID(s.user.ID)
	s.NoError(err)
	s.Empty(active)

	otherActive, err := s.repo.GetActiveByUserID(other.ID)
	s.NoError(err)
	s.Len(otherActive, 1)
}

func (s *RefreshTokenRepositorySuite) TestGetActiveByUserID_SkipsExpired() {
	s.createToken("hash-live", time.Now().Add(time.Hour))
	s.createToken("hash-stale", time.Now().Add(-time.Hour))

	active, err := s.repo.GetActiveByUserID(s.user.ID)
	s.NoError(err)
	s.Len(active, 1)
	s.Equal("hash-live", active[0].TokenHash)
}

func (s *RefreshTokenRepositorySuite) TestDeleteExpired() {
	s.createToken("hash-live", time.Now().Add(time.Hour))
	s.createToken("hash-stale", time.Now().Add(-time.Hour))

	deleted, err := s.repo.DeleteExpired()
	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.repo.GetByTokenHash("hash-stale")
	s.Equal(ErrRefreshTokenNotFound, err)
}
