package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Backend is the subset of an Ethereum RPC client the deployer needs.
// *ethclient.Client and simulated.Client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Client deploys artifacts with a single keyed signer
type Client struct {
	backend   Backend
	key       *ecdsa.PrivateKey
	chainID   *big.Int
	artifacts *ArtifactLoader
	log       *slog.Logger
}

var _ usecase.ChainClient = (*Client)(nil)

// NewClient creates a client bound to backend
func NewClient(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, artifacts *ArtifactLoader, log *slog.Logger) *Client {
	return &Client{
		backend:   backend,
		key:       key,
		chainID:   chainID,
		artifacts: artifacts,
		log:       log.With("component", "chain"),
	}
}

// ResolveSigners returns the deployer address
func (c *Client) ResolveSigners(ctx context.Context) (common.Address, error) {
	return crypto.PubkeyToAddress(c.key.PublicKey), nil
}

// GetBalance returns the latest balance of address in wei
func (c *Client) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, address, nil)
}

// DeployContract submits the creation transaction for spec. It does not wait
// for the transaction to be mined.
func (c *Client) DeployContract(ctx context.Context, spec *models.ContractSpec, args []any) (*usecase.PendingDeployment, error) {
	artifact, err := c.artifacts.Load(spec.ArtifactName())
	if err != nil {
		return nil, err
	}

	packed, err := CoerceArgs(artifact.ABI.Constructor.Inputs, args)
	if err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx

	address, tx, _, err := bind.DeployContract(auth, artifact.ABI, artifact.Bytecode, c.backend, packed...)
	if err != nil {
		return nil, err
	}

	c.log.Debug("contract deployment transaction sent",
		"contract", spec.Name,
		"artifact", artifact.Path,
		"expected_address", address.Hex(),
		"tx_hash", tx.Hash().Hex(),
	)

	return &usecase.PendingDeployment{
		Contract: spec.Name,
		TxHash:   tx.Hash(),
		Args:     args,
		Handle:   tx,
	}, nil
}

// AwaitConfirmation blocks until the creation transaction is mined and returns
// the address of the new contract.
func (c *Client) AwaitConfirmation(ctx context.Context, pending *usecase.PendingDeployment) (common.Address, error) {
	tx, ok := pending.Handle.(*types.Transaction)
	if !ok {
		return common.Address{}, fmt.Errorf("no transaction to wait for %s", pending.Contract)
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return common.Address{}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Address{}, fmt.Errorf("%w: tx %s in block %s", domain.ErrTransactionReverted, tx.Hash().Hex(), receipt.BlockNumber)
	}

	c.log.Debug("contract deployment confirmed",
		"contract", pending.Contract,
		"address", receipt.ContractAddress.Hex(),
		"gas_used", receipt.GasUsed,
	)
	return receipt.ContractAddress, nil
}
