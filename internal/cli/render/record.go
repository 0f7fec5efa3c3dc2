package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// RecordRenderer renders persisted deployment records and deploy runs
type RecordRenderer struct {
	out  io.Writer
	json bool
}

// NewRecordRenderer creates a new record renderer
func NewRecordRenderer(out io.Writer, asJSON bool) *RecordRenderer {
	return &RecordRenderer{out: out, json: asJSON}
}

// RenderRecord renders the record stored for a network
func (r *RecordRenderer) RenderRecord(result *usecase.ShowRecordResult) error {
	if r.json {
		return WriteJSON(r.out, result.Record)
	}

	record := result.Record
	fmt.Fprintf(r.out, "📦 Deployment on %s\n\n", bold(record.Network))
	fmt.Fprintf(r.out, "  Deployer:  %s\n", record.Deployer.Hex())
	fmt.Fprintf(r.out, "  Timestamp: %s\n\n", record.Timestamp.Format(time.RFC3339))
	r.renderContracts(result.Profile, record.Contracts)

	return nil
}

// RenderDeployResult renders the outcome of a pipeline run
func (r *RecordRenderer) RenderDeployResult(result *usecase.DeployContractsResult) error {
	if r.json {
		return WriteJSON(r.out, deployResultJSON(result))
	}

	if result.Outcome != usecase.OutcomeSuccess {
		if len(result.Deployed) > 0 {
			fmt.Fprintln(r.out, FormatWarning("Contracts confirmed before the failure (not recorded):"))
			addresses := make(models.ContractAddresses, 0, len(result.Deployed))
			for _, d := range result.Deployed {
				addresses = append(addresses, models.ContractAddress{Name: d.Name, Address: d.Address})
			}
			r.renderContracts(result.Profile, addresses)
		}
		return nil
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %d contracts to %s", len(result.Deployed), result.Profile.Name)))
	fmt.Fprintln(r.out)
	r.renderContracts(result.Profile, result.Record.Contracts)
	return nil
}

func (r *RecordRenderer) renderContracts(profile *domain.NetworkProfile, contracts models.ContractAddresses) {
	t := newTable(r.out)
	t.AppendHeader(table.Row{"CONTRACT", "ADDRESS"})
	for _, c := range contracts {
		address := c.Address.Hex()
		if profile != nil && profile.ExplorerURL != "" {
			address = fmt.Sprintf("%s  %s", address, faint(strings.TrimSuffix(profile.ExplorerURL, "/")+"/address/"+address))
		}
		t.AppendRow(table.Row{bold(c.Name), address})
	}
	t.Render()
}

type deployResultOutput struct {
	Outcome  usecase.Outcome          `json:"outcome"`
	Network  string                   `json:"network,omitempty"`
	Deployer string                   `json:"deployer,omitempty"`
	Deployed []models.DeployedContract `json:"deployed"`
	Record   *models.DeploymentRecord `json:"record,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

func deployResultJSON(result *usecase.DeployContractsResult) deployResultOutput {
	out := deployResultOutput{
		Outcome:  result.Outcome,
		Deployed: result.Deployed,
		Record:   result.Record,
	}
	if out.Deployed == nil {
		out.Deployed = []models.DeployedContract{}
	}
	if result.Profile != nil {
		out.Network = result.Profile.Name
	}
	if result.Deployer != (common.Address{}) {
		out.Deployer = result.Deployer.Hex()
	}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}
	return out
}
