package repositories

import (
	"testing"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestBlacklistedTokenRepository(t *testing.T) {
	suite.Run(t, new(BlacklistedTokenRepositorySuite))
}

type BlacklistedTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo BlacklistedTokenRepositoryInterface
}

func (s *BlacklistedTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewBlacklistedTokenRepository(s.db.DB)
}

func (s *BlacklistedTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *BlacklistedTokenRepositorySuite) TestCreateAndGetByJTI() {
	user := database.CreateTestUser(s.T(), s.db, "logout@example.com")

	token := &models.BlacklistedToken{
		JTI:       "jti-123",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.NoError(s.repo.Create(token))

	found, err := s.repo.GetByJTI("jti-123")
	s.NoError(err)
	s.Equal(user.ID, found.UserID)
	s.NotZero(found.BlacklistedAt)

	_, err = s.repo.GetByJTI("unknown-jti")
	s.Equal(ErrTokenNotFound, err)
}

func (s *BlacklistedTokenRepositorySuite) TestDeleteExpired() {
	live := &models.BlacklistedToken{JTI: "jti-live", ExpiresAt: time.Now().Add(time.Hour)}
	stale := &models.BlacklistedToken{JTI: "jti-stale", ExpiresAt: time.Now().Add(-time.Hour)}
	s.NoError(s.repo.Create(live))
	s.NoError(s.repo.Create(stale))

	deleted, err := s.repo.DeleteExpired()
	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.repo.GetByJTI("jti-stale")
	s.Equal(ErrTokenNotFound, err)

	_, err = s.repo.GetByJTI("jti-live")
	s.NoError(err)
}
