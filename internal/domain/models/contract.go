package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ArgTemplate is one constructor argument of a ContractSpec. It holds either a
// literal value or a reference to the deployed address of an earlier contract.
type ArgTemplate struct {
	Literal any    `json:"value,omitempty"`
	Ref     string `json:"ref,omitempty"`
}

// Literal creates a literal constructor argument
func Literal(value any) ArgTemplate {
	return ArgTemplate{Literal: value}
}

// Ref creates a constructor argument resolved to the address of another contract
func Ref(contract string) ArgTemplate {
	return ArgTemplate{Ref: contract}
}

// IsRef reports whether the argument is a reference to another contract
func (a ArgTemplate) IsRef() bool {
	return a.Ref != ""
}

// UnmarshalYAML accepts either a plain value (a literal) or a mapping with a
// single "ref" or "value" key.
func (a *ArgTemplate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var raw struct {
			Ref   string `yaml:"ref"`
			Value any    `yaml:"value"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Ref != "" && raw.Value != nil {
			return fmt.Errorf("line %d: argument cannot have both ref and value", node.Line)
		}
		if raw.Ref == "" && raw.Value == nil {
			return fmt.Errorf("line %d: argument mapping needs a ref or value key", node.Line)
		}
		*a = ArgTemplate{Ref: raw.Ref, Literal: raw.Value}
		return nil
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return err
	}
	*a = ArgTemplate{Literal: value}
	return nil
}

func (a ArgTemplate) String() string {
	if a.IsRef() {
		return "@" + a.Ref
	}
	return fmt.Sprintf("%v", a.Literal)
}

// ContractSpec is the declarative description of one contract to deploy
type ContractSpec struct {
	Name      string        `json:"name" yaml:"name"`
	Artifact  string        `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	Args      []ArgTemplate `json:"args,omitempty" yaml:"args,omitempty"`
	DependsOn []string      `json:"dependsOn,omitempty" yaml:"deps,omitempty"`
}

// ArtifactName returns the compiled artifact to deploy, defaulting to the spec name
func (s *ContractSpec) ArtifactName() string {
	if s.Artifact != "" {
		return s.Artifact
	}
	return s.Name
}

// References returns every contract this spec needs deployed first: explicit
// dependencies followed by argument references, without duplicates.
func (s *ContractSpec) References() []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
	}
	for _, dep := range s.DependsOn {
		add(dep)
	}
	for _, arg := range s.Args {
		if arg.IsRef() {
			add(arg.Ref)
		}
	}
	return refs
}
