package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialServiceHashAndVerify(t *testing.T) {
	svc := NewCredentialService(bcrypt.MinCost)

	hash, err := svc.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, svc.Verify("s3cret!", hash))
	assert.False(t, svc.Verify("wrong", hash))
	assert.False(t, svc.Verify("s3cret!", "not-a-hash"))
}

func TestCredentialServiceDefaultCost(t *testing.T) {
	svc := NewCredentialService(0)
	hash, err := svc.Hash("password")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}
