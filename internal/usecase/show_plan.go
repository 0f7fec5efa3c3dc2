package usecase

import (
	"context"
)

// ShowPlanResult contains a validated plan and where it came from
type ShowPlanResult struct {
	Source string
	Plan   *DeploymentPlan
}

// ShowPlan loads and validates the deployment plan without touching any chain
type ShowPlan struct {
	plans PlanSource
}

// NewShowPlan creates a new ShowPlan use case
func NewShowPlan(plans PlanSource) *ShowPlan {
	return &ShowPlan{plans: plans}
}

// Run executes the use case
func (uc *ShowPlan) Run(ctx context.Context) (*ShowPlanResult, error) {
	specs, err := uc.plans.LoadSpecs(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := NewPlan(specs)
	if err != nil {
		return nil, err
	}

	return &ShowPlanResult{Source: uc.plans.Description(), Plan: plan}, nil
}
