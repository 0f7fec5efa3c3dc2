package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// DevPrivateKey is account #0 of the anvil and hardhat default mnemonic. It is
// only used on networks that require no credentials.
const DevPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Connector dials networks over JSON-RPC
type Connector struct {
	artifacts *ArtifactLoader
	log       *slog.Logger
	clients   []*ethclient.Client
}

var _ usecase.ChainConnector = (*Connector)(nil)

// NewConnector creates a connector that loads artifacts from cfg.ArtifactsDir
func NewConnector(cfg *config.RuntimeConfig, log *slog.Logger) *Connector {
	return &Connector{
		artifacts: NewArtifactLoader(cfg.ArtifactsDir),
		log:       log,
	}
}

// Connect dials the network's RPC endpoint and checks it serves the expected chain
func (c *Connector) Connect(ctx context.Context, params usecase.ConnectParams) (usecase.ChainClient, error) {
	rpcURL, err := params.Profile.ResolveRPCURL(params.APIKey, params.RPCOverride)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", redactURL(rpcURL, params.APIKey), err)
	}
	c.clients = append(c.clients, client)

	return c.bind(ctx, client, params)
}

// bind verifies the chain ID and selects the signer for an open backend
func (c *Connector) bind(ctx context.Context, backend Backend, params usecase.ConnectParams) (*Client, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if expected := params.Profile.ChainID; expected != 0 && chainID.Cmp(new(big.Int).SetUint64(expected)) != 0 {
		return nil, fmt.Errorf("%w: %s expects chain %d, endpoint serves %s", domain.ErrNetworkMismatch, params.Profile.Name, expected, chainID)
	}

	key, err := c.signer(params)
	if err != nil {
		return nil, err
	}

	c.log.Debug("connected", "network", params.Profile.Name, "chain_id", chainID)
	return NewClient(backend, key, chainID, c.artifacts, c.log), nil
}

// signer parses the deployer key. Networks that need no credentials fall back to
// the development account unless a usable key was given.
func (c *Connector) signer(params usecase.ConnectParams) (*ecdsa.PrivateKey, error) {
	keyHex := strings.TrimSpace(params.PrivateKey)

	if params.Profile.RequiresCredentials {
		if keyHex == "" {
			return nil, &domain.ConfigError{Network: params.Profile.Name, Key: config.EnvPrivateKey, Reason: domain.ConfigReasonMissing}
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
		if err != nil {
			return nil, &domain.ConfigError{Network: params.Profile.Name, Key: config.EnvPrivateKey, Reason: domain.ConfigReasonMalformed}
		}
		return key, nil
	}

	switch {
	case keyHex == "":
		c.log.Debug("no deployer key set, using local development account", "network", params.Profile.Name)
	case usecase.IsPlaceholder(config.EnvPrivateKey, keyHex):
		c.log.Debug("deployer key is a placeholder, using local development account", "network", params.Profile.Name)
	default:
		if key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x")); err == nil {
			return key, nil
		}
		c.log.Debug("deployer key is malformed, using local development account", "network", params.Profile.Name)
	}
	return crypto.HexToECDSA(strings.TrimPrefix(DevPrivateKey, "0x"))
}

// Close closes every client opened by Connect
func (c *Connector) Close() {
	for _, client := range c.clients {
		client.Close()
	}
	c.clients = nil
}

func redactURL(url, secret string) string {
	if secret == "" {
		return url
	}
	return strings.ReplaceAll(url, secret, "***")
}
