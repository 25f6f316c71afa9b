package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BeforeSave never touches tx, but the hook signature requires one.
var mockTx *gorm.DB = nil

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	plainPassword := "mySecretPassword123"
	user := &User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: plainPassword,
	}

	err := user.BeforeSave(mockTx)

	require.NoError(t, err)
	assert.NotEqual(t, plainPassword, user.Password, "password must be replaced by its hash")

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword))
	assert.NoError(t, err, "hash must match the original password")
}

func TestUser_BeforeSave_SkipsAlreadyHashedPassword(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("alreadyHashed"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}
	originalHash := user.Password

	err = user.BeforeSave(mockTx)

	require.NoError(t, err)
	assert.Equal(t, originalHash, user.Password, "an existing hash must not be double-hashed")
}

func TestUser_BeforeSave_SkipsEmptyPassword(t *testing.T) {
	user := &User{Username: "googleuser", Email: "g@example.com", Password: ""}

	err := user.BeforeSave(mockTx)

	require.NoError(t, err)
	assert.Empty(t, user.Password)
}

func TestUser_CheckPassword(t *testing.T) {
	user := &User{Password: "secret123"}
	require.NoError(t, user.BeforeSave(mockTx))

	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.False(t, user.CheckPassword(""))
}
