package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordService_HashAndCompare(t *testing.T) {
	service := NewPasswordService()

	hash, err := service.HashPassword("correct-horse")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.True(t, service.ComparePassword("correct-horse", hash))
	assert.False(t, service.ComparePassword("wrong-horse", hash))
}

func TestPasswordService_HashIsSalted(t *testing.T) {
	service := NewPasswordService()

	first, err := service.HashPassword("correct-horse")
	assert.NoError(t, err)
	second, err := service.HashPassword("correct-horse")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordService_ValidatePassword(t *testing.T) {
	service := NewPasswordService()

	assert.NoError(t, service.ValidatePassword("12345678"))
	assert.Error(t, service.ValidatePassword(""))
	assert.Error(t, service.ValidatePassword("short"))
	// bcrypt truncates beyond 72 bytes, so longer inputs are rejected outright
	assert.Error(t, service.ValidatePassword(strings.Repeat("a", 73)))
}
