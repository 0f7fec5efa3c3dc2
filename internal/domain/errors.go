package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnknownNetwork is returned when a network cannot be reached because nothing
	// describes how to connect to it
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrNetworkMismatch is returned when the RPC endpoint reports a different chain
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrTransactionReverted is returned when a deployment transaction was mined with a failed status
	ErrTransactionReverted = errors.New("transaction reverted")
)

// ConfigReason explains why a required environment value was rejected
type ConfigReason string

const (
	ConfigReasonMissing     ConfigReason = "missing"
	ConfigReasonPlaceholder ConfigReason = "placeholder"
	ConfigReasonMalformed   ConfigReason = "malformed"
)

// ConfigError is returned when a required environment value is missing,
// still set to the documentation example, or unusable.
type ConfigError struct {
	Network string
	Key     string
	Reason  ConfigReason
}

func (e *ConfigError) Error() string {
	var msg string
	switch e.Reason {
	case ConfigReasonPlaceholder:
		msg = fmt.Sprintf("%s is still set to the example placeholder value", e.Key)
	case ConfigReasonMalformed:
		msg = fmt.Sprintf("%s is malformed", e.Key)
	default:
		msg = fmt.Sprintf("%s is not set", e.Key)
	}
	if e.Network == "" {
		return msg
	}
	return fmt.Sprintf("network %s: %s", e.Network, msg)
}

// PlanError is returned when a list of contract specs cannot be deployed in the given order
type PlanError struct {
	Contract       string
	Reason         string
	SuggestedOrder []string
}

func (e *PlanError) Error() string {
	msg := "invalid deployment plan: " + e.Reason
	if e.Contract != "" {
		msg = fmt.Sprintf("invalid deployment plan: contract %s: %s", e.Contract, e.Reason)
	}
	if len(e.SuggestedOrder) > 0 {
		msg += fmt.Sprintf(" (a valid order would be: %s)", strings.Join(e.SuggestedOrder, ", "))
	}
	return msg
}

// UnresolvedDependencyError means a constructor argument referenced a contract
// that has not been deployed yet in this run.
type UnresolvedDependencyError struct {
	Contract  string
	Reference string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("contract %s references %s which has not been deployed", e.Contract, e.Reference)
}

// DeploymentStage identifies where a deployment step failed
type DeploymentStage string

const (
	StageSubmit  DeploymentStage = "submit"
	StageConfirm DeploymentStage = "confirm"
)

// DeploymentError is returned when the chain client reports a failed or reverted deployment
type DeploymentError struct {
	Network  string
	Contract string
	Stage    DeploymentStage
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("network %s: failed to deploy %s (%s): %v", e.Network, e.Contract, e.Stage, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// InsufficientBalanceWarning is reported when the deployer holds less than the
// network threshold. It satisfies error so it can travel through warning sinks,
// but it never fails a run.
type InsufficientBalanceWarning struct {
	Network    string
	Deployer   string
	Balance    *big.Int
	Required   *big.Int
	FaucetHint string
	// QueryErr is set when the balance could not be read at all
	QueryErr error
}

func (w *InsufficientBalanceWarning) Error() string {
	if w.QueryErr != nil {
		return fmt.Sprintf("network %s: could not read balance of %s: %v", w.Network, w.Deployer, w.QueryErr)
	}
	msg := fmt.Sprintf("network %s: deployer %s holds %s ETH (%s wei), below the recommended %s ETH",
		w.Network, w.Deployer, FormatEther(w.Balance), FormatWei(w.Balance), FormatEther(w.Required))
	if w.FaucetHint != "" {
		msg += fmt.Sprintf("; request funds at %s", w.FaucetHint)
	}
	return msg
}

func (w *InsufficientBalanceWarning) Unwrap() error {
	return w.QueryErr
}
