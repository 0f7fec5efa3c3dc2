package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// Artifact is a compiled contract ready to deploy
type Artifact struct {
	Name     string
	Path     string
	ABI      abi.ABI
	Bytecode []byte
}

// ArtifactLoader reads compiled artifacts from a build output directory.
// Foundry layout (<dir>/<Name>.sol/<Name>.json) is tried before the flat
// layout (<dir>/<Name>.json).
type ArtifactLoader struct {
	dir string
}

// NewArtifactLoader creates a loader rooted at dir
func NewArtifactLoader(dir string) *ArtifactLoader {
	return &ArtifactLoader{dir: dir}
}

type artifactJSON struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
}

// Load finds and parses the artifact for name
func (l *ArtifactLoader) Load(name string) (*Artifact, error) {
	candidates := []string{
		filepath.Join(l.dir, name+".sol", name+".json"),
		filepath.Join(l.dir, name+".json"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
		}
		artifact, err := parseArtifact(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
		}
		artifact.Name = name
		artifact.Path = path
		return artifact, nil
	}

	return nil, fmt.Errorf("%w: artifact for %s in %s (build the contracts first)", domain.ErrNotFound, name, l.dir)
}

func parseArtifact(data []byte) (*Artifact, error) {
	var raw artifactJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("missing abi")
	}

	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}

	bytecodeHex, err := decodeBytecodeField(raw.Bytecode)
	if err != nil {
		return nil, err
	}
	bytecode := common.FromHex(bytecodeHex)
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("empty bytecode (abstract contract or interface?)")
	}

	return &Artifact{ABI: parsedABI, Bytecode: bytecode}, nil
}

// decodeBytecodeField accepts both "0x..." and {"object": "0x..."}
func decodeBytecodeField(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("missing bytecode")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("unsupported bytecode field: %w", err)
	}
	return strings.TrimSpace(obj.Object), nil
}
