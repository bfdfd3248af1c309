package services

import (
	"context"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthServiceInterface defines the contract for authentication operations
type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress string) (*dto.TokenResponse, *models.User, error)
	RefreshTokens(refreshToken, ipAddress string) (*dto.TokenResponse, error)
	Logout(accessToken, ipAddress string) error
	GetProfile(userID uuid.UUID) (*models.User, error)
	UpdateSavingsGoal(userID uuid.UUID, goal decimal.Decimal) (*models.User, error)
}

// TokenServiceInterface defines the contract for JWT token operations
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

// PasswordServiceInterface defines the contract for password operations
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// TransactionServiceInterface defines the contract for transaction operations
type TransactionServiceInterface interface {
	Create(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	List(userID uuid.UUID) ([]models.Transaction, error)
	Get(userID, transactionID uuid.UUID) (*models.Transaction, error)
	Update(userID, transactionID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(userID, transactionID uuid.UUID) error
}

// SummaryServiceInterface defines the contract for aggregation operations
type SummaryServiceInterface interface {
	GetSummary(userID uuid.UUID, period models.Period) (*dto.SummaryResponse, error)
	GetMonthlySeries(userID uuid.UUID) (*dto.MonthlySeriesResponse, error)
}

// RecurrenceServiceInterface defines the contract for recurrence evaluation
type RecurrenceServiceInterface interface {
	RunForUser(ctx context.Context, userID uuid.UUID, trigger string) (*RunReport, error)
	RunAll(ctx context.Context, trigger string) error
}

// TransactionGeneratorInterface defines the contract for sample data generation
type TransactionGeneratorInterface interface {
	GenerateSampleTransactions(userID uuid.UUID, now time.Time) []*models.Transaction
}

// MetricsRecorderInterface defines the contract for metrics recording
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}
