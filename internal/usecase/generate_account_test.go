package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestGenerateAccount_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("prints a key without touching .env", func(t *testing.T) {
		envFile := &MockEnvFileWriter{}
		uc := usecase.NewGenerateAccount(envFile)

		result, err := uc.Run(ctx, usecase.GenerateAccountParams{})
		require.NoError(t, err)

		key, err := crypto.HexToECDSA(result.PrivateKey[2:])
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), result.Address)
		assert.Len(t, result.PrivateKey, 66)
		assert.Empty(t, result.EnvFile)
		envFile.AssertNotCalled(t, "Get", mock.Anything)
		envFile.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})

	t.Run("replaces a placeholder in .env", func(t *testing.T) {
		envFile := &MockEnvFileWriter{}
		envFile.On("Get", config.EnvPrivateKey).Return("your_private_key_here", true, nil).Once()
		envFile.On("Set", config.EnvPrivateKey, mock.AnythingOfType("string")).Return(nil).Once()
		uc := usecase.NewGenerateAccount(envFile)

		result, err := uc.Run(ctx, usecase.GenerateAccountParams{WriteEnv: true})
		require.NoError(t, err)
		assert.Equal(t, "/project/.env", result.EnvFile)
		envFile.AssertCalled(t, "Set", config.EnvPrivateKey, result.PrivateKey)
	})

	t.Run("refuses to overwrite a real key", func(t *testing.T) {
		envFile := &MockEnvFileWriter{}
		envFile.On("Get", config.EnvPrivateKey).Return(testPrivateKey, true, nil).Once()
		uc := usecase.NewGenerateAccount(envFile)

		_, err := uc.Run(ctx, usecase.GenerateAccountParams{WriteEnv: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
		envFile.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})

	t.Run("force overwrites without reading", func(t *testing.T) {
		envFile := &MockEnvFileWriter{}
		envFile.On("Set", config.EnvPrivateKey, mock.AnythingOfType("string")).Return(nil).Once()
		uc := usecase.NewGenerateAccount(envFile)

		_, err := uc.Run(ctx, usecase.GenerateAccountParams{WriteEnv: true, Force: true})
		require.NoError(t, err)
		envFile.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("write failure is returned", func(t *testing.T) {
		envFile := &MockEnvFileWriter{}
		envFile.On("Get", config.EnvPrivateKey).Return("", false, nil).Once()
		envFile.On("Set", config.EnvPrivateKey, mock.Anything).Return(errors.New("read-only")).Once()
		uc := usecase.NewGenerateAccount(envFile)

		_, err := uc.Run(ctx, usecase.GenerateAccountParams{WriteEnv: true})
		assert.EqualError(t, err, "read-only")
	})
}
