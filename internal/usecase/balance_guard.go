package usecase

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// BalanceGuard warns when the deployer looks underfunded. It never fails the
// pipeline: the chain rejects the transaction if funds are truly insufficient.
type BalanceGuard struct {
	progress ProgressSink
	log      *slog.Logger
}

// NewBalanceGuard creates a new BalanceGuard
func NewBalanceGuard(progress ProgressSink, log *slog.Logger) *BalanceGuard {
	return &BalanceGuard{
		progress: progress,
		log:      log.With("component", "balance_guard"),
	}
}

// Check returns the warning it emitted, or nil when the balance is sufficient or
// the network needs no credentials.
func (g *BalanceGuard) Check(ctx context.Context, chain ChainClient, profile *domain.NetworkProfile, deployer common.Address) *domain.InsufficientBalanceWarning {
	if !profile.RequiresCredentials {
		return nil
	}

	required := profile.Threshold()
	balance, err := chain.GetBalance(ctx, deployer)
	if err != nil {
		warning := &domain.InsufficientBalanceWarning{
			Network:    profile.Name,
			Deployer:   deployer.Hex(),
			Required:   required,
			FaucetHint: profile.FaucetHint,
			QueryErr:   err,
		}
		g.emit(warning)
		return warning
	}

	g.log.Debug("deployer balance", "deployer", deployer.Hex(), "balance", balance, "required", required)

	if balance.Cmp(required) >= 0 {
		return nil
	}

	warning := &domain.InsufficientBalanceWarning{
		Network:    profile.Name,
		Deployer:   deployer.Hex(),
		Balance:    balance,
		Required:   required,
		FaucetHint: profile.FaucetHint,
	}
	g.emit(warning)
	return warning
}

func (g *BalanceGuard) emit(warning *domain.InsufficientBalanceWarning) {
	g.log.Warn("insufficient deployer balance", "err", warning.Error())
	g.progress.Warn(warning.Error())
}
