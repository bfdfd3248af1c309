package repositories

import (
	"testing"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) TestUserRepository_Create() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Name:         "Test User",
	}

	err := s.repo.Create(user)
	s.NoError(err)
	s.NotEqual(uuid.Nil, user.ID)
	s.NotZero(user.CreatedAt)
	s.NotZero(user.UpdatedAt)
}

func (s *UserRepositorySuite) TestUserRepository_Create_DuplicateEmail() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Name:         "Test User",
	}
	s.NoError(s.repo.Create(user))

	duplicate := &models.User{
		Email:        "test@example.com",
		PasswordHash: "other_hash",
		Name:         "Impostor",
	}
	s.Equal(ErrUserAlreadyExists, s.repo.Create(duplicate))
}

func (s *UserRepositorySuite) TestUserRepository_GetByEmail() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Name:         "Test User",
	}
	s.NoError(s.repo.Create(user))

	foundUser, err := s.repo.GetByEmail("test@example.com")
	s.NoError(err)
	s.Equal(user.ID, foundUser.ID)
	s.Equal(user.Email, foundUser.Email)

	_, err = s.repo.GetByEmail("nonexistent@example.com")
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_Update() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Name:         "Test User",
	}
	s.NoError(s.repo.Create(user))

	user.Name = "Updated"
	user.FailedLoginAttempts = 2
	s.NoError(s.repo.Update(user))

	updatedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal("Updated", updatedUser.Name)
	s.Equal(2, updatedUser.FailedLoginAttempts)
}

func (s *UserRepositorySuite) TestUserRepository_LockAndReset() {
	user := &models.User{
		Email:        "locked@example.com",
		PasswordHash: "hashed_password",
		Name:         "Locked User",
	}
	s.NoError(s.repo.Create(user))

	user.Lock()
	s.NoError(s.repo.UpdateFailedLoginAttempts(user))

	lockedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.True(lockedUser.IsLocked())
	s.Equal(models.MaxFailedLoginAttempts, lockedUser.FailedLoginAttempts)

	s.NoError(s.repo.ResetFailedLoginAttempts(user.ID))

	unlockedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.False(unlockedUser.IsLocked())
	s.Equal(0, unlockedUser.FailedLoginAttempts)
}

func (s *UserRepositorySuite) TestUserRepository_UpdateSavingsGoal() {
	user := &models.User{
		Email:        "saver@example.com",
		PasswordHash: "hashed_password",
		Name:         "Saver",
	}
	s.NoError(s.repo.Create(user))

	s.NoError(s.repo.UpdateSavingsGoal(user.ID, decimal.NewFromInt(750)))

	updated, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.True(updated.MonthlySavingsGoal.Equal(decimal.NewFromInt(750)))

	s.Equal(models.ErrNegativeSavingsGoal, s.repo.UpdateSavingsGoal(user.ID, decimal.NewFromInt(-1)))
	s.Equal(ErrUserNotFound, s.repo.UpdateSavingsGoal(uuid.New(), decimal.NewFromInt(100)))
}

func (s *UserRepositorySuite) TestUserRepository_Delete() {
	user := &models.User{
		Email:        "gone@example.com",
		PasswordHash: "hashed_password",
		Name:         "Gone User",
	}
	s.NoError(s.repo.Create(user))

	s.NoError(s.repo.Delete(user.ID))

	_, err := s.repo.GetByID(user.ID)
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_LastLoginPersists() {
	user := &models.User{
		Email:        "active@example.com",
		PasswordHash: "hashed_password",
		Name:         "Active User",
	}
	s.NoError(s.repo.Create(user))

	user.UpdateLastLogin()
	s.NoError(s.repo.UpdateFailedLoginAttempts(user))

	found, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.NotNil(found.LastLoginAt)
	s.WithinDuration(time.Now(), *found.LastLoginAt, time.Minute)
}
