package usecase

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// DeploymentPlan is an ordered list of contract specs in which every spec only
// depends on specs that come before it. It can only be built through NewPlan.
type DeploymentPlan struct {
	specs []models.ContractSpec
}

// NewPlan validates the specs and returns a plan that is safe to execute in order
func NewPlan(specs []models.ContractSpec) (*DeploymentPlan, error) {
	if len(specs) == 0 {
		return nil, &domain.PlanError{Reason: "plan contains no contracts"}
	}

	for i, spec := range specs {
		if strings.TrimSpace(spec.Name) == "" {
			return nil, &domain.PlanError{Reason: fmt.Sprintf("contract #%d has no name", i+1)}
		}
	}

	if dups := lo.FindDuplicatesBy(specs, func(s models.ContractSpec) string { return s.Name }); len(dups) > 0 {
		return nil, &domain.PlanError{Contract: dups[0].Name, Reason: "declared more than once"}
	}

	index := make(map[string]int, len(specs))
	for i, spec := range specs {
		index[spec.Name] = i
	}

	for i, spec := range specs {
		for _, ref := range spec.References() {
			if ref == spec.Name {
				return nil, &domain.PlanError{Contract: spec.Name, Reason: "references itself"}
			}
			j, ok := index[ref]
			if !ok {
				return nil, &domain.PlanError{Contract: spec.Name, Reason: fmt.Sprintf("depends on unknown contract %s", ref)}
			}
			if j > i {
				return nil, orderingError(specs, spec.Name, ref)
			}
		}
	}

	return &DeploymentPlan{specs: specs}, nil
}

// Specs returns the specs in deployment order
func (p *DeploymentPlan) Specs() []models.ContractSpec {
	out := make([]models.ContractSpec, len(p.specs))
	copy(out, p.specs)
	return out
}

// Len returns the number of contracts in the plan
func (p *DeploymentPlan) Len() int {
	return len(p.specs)
}

// Names returns the contract names in deployment order
func (p *DeploymentPlan) Names() []string {
	return lo.Map(p.specs, func(s models.ContractSpec, _ int) string { return s.Name })
}

// orderingError explains a forward reference. If the dependency graph is acyclic
// the error carries an order that would work.
func orderingError(specs []models.ContractSpec, contract, ref string) error {
	order, cycle := topologicalOrder(specs)
	if len(cycle) > 0 {
		return &domain.PlanError{
			Contract: contract,
			Reason:   fmt.Sprintf("circular dependency involving %s", strings.Join(cycle, ", ")),
		}
	}
	return &domain.PlanError{
		Contract:       contract,
		Reason:         fmt.Sprintf("depends on %s which is declared later", ref),
		SuggestedOrder: order,
	}
}

// topologicalOrder runs Kahn's algorithm, preferring the declared order among
// ready specs. It returns the nodes left over when a cycle prevents completion.
func topologicalOrder(specs []models.ContractSpec) (order []string, cycle []string) {
	position := make(map[string]int, len(specs))
	for i, spec := range specs {
		position[spec.Name] = i
	}

	inDegree := make(map[string]int, len(specs))
	dependents := make(map[string][]string)
	for _, spec := range specs {
		inDegree[spec.Name] += 0
		for _, ref := range spec.References() {
			if _, ok := position[ref]; !ok {
				continue
			}
			inDegree[spec.Name]++
			dependents[ref] = append(dependents[ref], spec.Name)
		}
	}

	var ready []string
	for _, spec := range specs {
		if inDegree[spec.Name] == 0 {
			ready = append(ready, spec.Name)
		}
	}

	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		for _, dependent := range dependents[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = insertByPosition(ready, dependent, position)
			}
		}
	}

	if len(order) != len(specs) {
		for _, spec := range specs {
			if inDegree[spec.Name] > 0 {
				cycle = append(cycle, spec.Name)
			}
		}
		return nil, cycle
	}

	return order, nil
}

func insertByPosition(queue []string, name string, position map[string]int) []string {
	for i, queued := range queue {
		if position[name] < position[queued] {
			queue = append(queue[:i], append([]string{name}, queue[i:]...)...)
			return queue
		}
	}
	return append(queue, name)
}
