package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// PlanRenderer renders a validated deployment plan
type PlanRenderer struct {
	out  io.Writer
	json bool
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer, asJSON bool) *PlanRenderer {
	return &PlanRenderer{out: out, json: asJSON}
}

// RenderPlan renders the plan in deployment order
func (r *PlanRenderer) RenderPlan(result *usecase.ShowPlanResult) error {
	specs := result.Plan.Specs()
	if r.json {
		return WriteJSON(r.out, specs)
	}

	fmt.Fprintf(r.out, "📋 Deployment plan (%s):\n\n", result.Source)

	t := newTable(r.out)
	t.AppendHeader(table.Row{"#", "CONTRACT", "ARTIFACT", "CONSTRUCTOR ARGS", "DEPENDS ON"})
	for i, spec := range specs {
		t.AppendRow(table.Row{
			i + 1,
			bold(spec.Name),
			spec.ArtifactName(),
			formatArgs(spec.Args),
			strings.Join(spec.References(), ", "),
		})
	}
	t.Render()

	return nil
}

func formatArgs(args []models.ArgTemplate) string {
	if len(args) == 0 {
		return faint("none")
	}
	return strings.Join(lo.Map(args, func(arg models.ArgTemplate, _ int) string {
		if arg.IsRef() {
			return arg.String()
		}
		if s, ok := arg.Literal.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		return arg.String()
	}), ", ")
}
