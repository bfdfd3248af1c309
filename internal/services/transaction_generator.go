package services

import (
	"math/rand"
	"time"

	"fintrack/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	seedMonths          = 6
	expensesPerMonthMin = 8
	expensesPerMonthMax = 20
)

// expenseCategories pairs a category with a plausible amount range.
var expenseCategories = []struct {
	name     string
	min, max float64
}{
	{"groceries", 15, 250},
	{"dining", 8, 120},
	{"transport", 10, 80},
	{"shopping", 25, 450},
	{"entertainment", 10, 60},
	{"utilities", 50, 250},
	{"health", 20, 300},
}

type transactionGenerator struct {
	rng *rand.Rand
}

// NewTransactionGenerator creates a generator for development sample data
func NewTransactionGenerator() TransactionGeneratorInterface {
	source := rand.NewSource(time.Now().UnixNano())
	return &transactionGenerator{
		rng: rand.New(source),
	}
}

// GenerateSampleTransactions produces several months of plausible personal
// finance history for a user: a monthly salary, a monthly savings transfer,
// scattered expenses, and a couple of recurring templates.
func (g *transactionGenerator) GenerateSampleTransactions(userID uuid.UUID, now time.Time) []*models.Transaction {
	transactions := make([]*models.Transaction, 0, seedMonths*expensesPerMonthMax)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	salary := decimal.NewFromFloat(2500 + g.rng.Float64()*3500).Round(2)
	savings := decimal.NewFromFloat(200 + g.rng.Float64()*400).Round(2)

	for m := seedMonths - 1; m >= 0; m-- {
		start := monthStart.AddDate(0, -m, 0)

		transactions = append(transactions,
			g.newTransaction(userID, models.TransactionTypeIncome, salary, "Salary "+gofakeit.Company(), "salary", start.AddDate(0, 0, 0)),
			g.newTransaction(userID, models.TransactionTypeSavings, savings, "Monthly savings transfer", "savings", start.AddDate(0, 0, 1)),
		)

		expenses := expensesPerMonthMin + g.rng.Intn(expensesPerMonthMax-expensesPerMonthMin)
		for i := 0; i < expenses; i++ {
			c := expenseCategories[g.rng.Intn(len(expenseCategories))]
			amount := decimal.NewFromFloat(c.min + g.rng.Float64()*(c.max-c.min)).Round(2)
			day := g.rng.Intn(28)
			transactions = append(transactions,
				g.newTransaction(userID, models.TransactionTypeExpense, amount, gofakeit.ProductName(), c.name, start.AddDate(0, 0, day)),
			)
		}
	}

	transactions = append(transactions, g.generateRecurringTemplates(userID, monthStart)...)

	return transactions
}

// generateRecurringTemplates produces recurring fixtures: a monthly rent
// payment, a weekly grocery run, and a yearly insurance premium.
func (g *transactionGenerator) generateRecurringTemplates(userID uuid.UUID, monthStart time.Time) []*models.Transaction {
	rent := g.newTransaction(userID, models.TransactionTypeExpense,
		decimal.NewFromFloat(800+g.rng.Float64()*700).Round(2),
		"Rent", "housing", monthStart.AddDate(0, -1, 0))
	rent.IsRecurring = true
	rent.Frequency = models.FrequencyMonthly
	rent.BillingDate = 1

	groceries := g.newTransaction(userID, models.TransactionTypeExpense,
		decimal.NewFromFloat(40+g.rng.Float64()*60).Round(2),
		"Weekly groceries", "groceries", monthStart.AddDate(0, 0, -10))
	groceries.IsRecurring = true
	groceries.Frequency = models.FrequencyWeekly

	insurance := g.newTransaction(userID, models.TransactionTypeExpense,
		decimal.NewFromFloat(300+g.rng.Float64()*500).Round(2),
		"Insurance premium "+gofakeit.Company(), "insurance", monthStart.AddDate(-1, 0, 14))
	insurance.IsRecurring = true
	insurance.Frequency = models.FrequencyYearly
	insurance.BillingDate = 15

	return []*models.Transaction{rent, groceries, insurance}
}

func (g *transactionGenerator) newTransaction(userID uuid.UUID, txType string, amount decimal.Decimal, description, category string, date time.Time) *models.Transaction {
	return &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
	}
}
