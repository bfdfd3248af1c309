package validation

import (
	"reflect"
	"strings"
	"time"

	"fintrack/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("frequency", validateFrequency)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("period", validatePeriod)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateTransactionType validates that transaction type is one of the allowed types
func validateTransactionType(fl validator.FieldLevel) bool {
	txType := strings.ToLower(fl.Field().String())
	return models.IsValidTransactionType(txType)
}

// validateFrequency validates that a recurrence frequency is one of the allowed values
func validateFrequency(fl validator.FieldLevel) bool {
	frequency := strings.ToLower(fl.Field().String())
	return models.IsValidFrequency(frequency)
}

// validatePositiveAmount validates that a string-encoded decimal amount is greater than 0
func validatePositiveAmount(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return amount.IsPositive()
}

// validatePeriod validates a summary period selector: "current", "overall", or YYYY-MM
func validatePeriod(fl validator.FieldLevel) bool {
	period := fl.Field().String()
	switch period {
	case models.PeriodCurrent, models.PeriodOverall:
		return true
	}

	_, err := time.Parse(models.MonthKeyLayout, period)
	return err == nil
}
