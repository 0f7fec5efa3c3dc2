package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeployedContract is the result of one successful deployment step
type DeployedContract struct {
	Name       string         `json:"name"`
	Address    common.Address `json:"address"`
	TxHash     common.Hash    `json:"txHash"`
	Args       []any          `json:"args,omitempty"`
	DeployedAt time.Time      `json:"deployedAt"`
}

// ContractAddress pairs a contract name with its deployed address
type ContractAddress struct {
	Name    string
	Address common.Address
}

// ContractAddresses is a name -> address mapping that keeps insertion order,
// both in memory and when encoded as a JSON object.
type ContractAddresses []ContractAddress

// Get returns the address recorded for name
func (c ContractAddresses) Get(name string) (common.Address, bool) {
	for _, entry := range c {
		if entry.Name == name {
			return entry.Address, true
		}
	}
	return common.Address{}, false
}

// Names returns the contract names in insertion order
func (c ContractAddresses) Names() []string {
	names := make([]string, len(c))
	for i, entry := range c {
		names[i] = entry.Name
	}
	return names
}

// MarshalJSON encodes the entries as a JSON object in insertion order
func (c ContractAddresses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Address.Hex())
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the key order of the document
func (c *ContractAddresses) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("contracts must be a JSON object")
	}

	entries := ContractAddresses{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected contracts key %v", tok)
		}
		var addr string
		if err := dec.Decode(&addr); err != nil {
			return fmt.Errorf("contract %s: %w", name, err)
		}
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("contract %s: invalid address %q", name, addr)
		}
		entries = append(entries, ContractAddress{Name: name, Address: common.HexToAddress(addr)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = entries
	return nil
}

// DeploymentRecord is the persisted result of the most recent successful run on a network
type DeploymentRecord struct {
	Network   string            `json:"network"`
	Deployer  common.Address    `json:"deployer"`
	Contracts ContractAddresses `json:"contracts"`
	Timestamp time.Time         `json:"timestamp"`
}

type deploymentRecordJSON struct {
	Network   string            `json:"network"`
	Deployer  string            `json:"deployer"`
	Contracts ContractAddresses `json:"contracts"`
	Timestamp time.Time         `json:"timestamp"`
}

// MarshalJSON writes the deployer checksummed, like the contract addresses
func (r DeploymentRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(deploymentRecordJSON{
		Network:   r.Network,
		Deployer:  r.Deployer.Hex(),
		Contracts: r.Contracts,
		Timestamp: r.Timestamp,
	})
}

func (r *DeploymentRecord) UnmarshalJSON(data []byte) error {
	var raw deploymentRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !common.IsHexAddress(raw.Deployer) {
		return fmt.Errorf("invalid deployer address %q", raw.Deployer)
	}
	*r = DeploymentRecord{
		Network:   raw.Network,
		Deployer:  common.HexToAddress(raw.Deployer),
		Contracts: raw.Contracts,
		Timestamp: raw.Timestamp,
	}
	return nil
}

// NewDeploymentRecord builds a record from the contracts deployed in one run
func NewDeploymentRecord(network string, deployer common.Address, deployed []DeployedContract, at time.Time) *DeploymentRecord {
	contracts := make(ContractAddresses, 0, len(deployed))
	for _, d := range deployed {
		contracts = append(contracts, ContractAddress{Name: d.Name, Address: d.Address})
	}
	return &DeploymentRecord{
		Network:   network,
		Deployer:  deployer,
		Contracts: contracts,
		Timestamp: at.UTC(),
	}
}
