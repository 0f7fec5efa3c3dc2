package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// GenerateAccountParams contains parameters for account generation
type GenerateAccountParams struct {
	// WriteEnv stores the key as DEPLOYER_PRIVATE_KEY in the project .env file
	WriteEnv bool
	// Force overwrites an existing, non-placeholder key in .env
	Force bool
}

// GenerateAccountResult contains the generated account
type GenerateAccountResult struct {
	Address    common.Address
	PrivateKey string
	EnvFile    string // set when the key was written to .env
}

// GenerateAccount creates a fresh deployer account
type GenerateAccount struct {
	envFile EnvFileWriter
}

// NewGenerateAccount creates a new GenerateAccount use case
func NewGenerateAccount(envFile EnvFileWriter) *GenerateAccount {
	return &GenerateAccount{envFile: envFile}
}

// Run executes the use case
func (uc *GenerateAccount) Run(ctx context.Context, params GenerateAccountParams) (*GenerateAccountResult, error) {
	if params.WriteEnv && !params.Force {
		existing, ok, err := uc.envFile.Get(config.EnvPrivateKey)
		if err != nil {
			return nil, err
		}
		if ok && existing != "" && !IsPlaceholder(config.EnvPrivateKey, existing) {
			return nil, fmt.Errorf("%s already holds %s; use --force to replace it", uc.envFile.Path(), config.EnvPrivateKey)
		}
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	result := &GenerateAccountResult{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}

	if params.WriteEnv {
		if err := uc.envFile.Set(config.EnvPrivateKey, result.PrivateKey); err != nil {
			return nil, err
		}
		result.EnvFile = uc.envFile.Path()
	}

	return result, nil
}
