package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out  io.Writer
	json bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, asJSON bool) *NetworksRenderer {
	return &NetworksRenderer{out: out, json: asJSON}
}

type networkJSON struct {
	Name                string `json:"name"`
	ChainID             uint64 `json:"chainId"`
	RequiresCredentials bool   `json:"requiresCredentials"`
	MinBalance          string `json:"minBalance"`
	Faucet              string `json:"faucet,omitempty"`
	HasRecord           bool   `json:"hasRecord"`
}

// RenderNetworksList renders the known network profiles
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if r.json {
		entries := make([]networkJSON, 0, len(result.Networks))
		for _, n := range result.Networks {
			entries = append(entries, networkJSON{
				Name:                n.Profile.Name,
				ChainID:             n.Profile.ChainID,
				RequiresCredentials: n.Profile.RequiresCredentials,
				MinBalance:          domain.FormatEther(n.Profile.Threshold()),
				Faucet:              n.Profile.FaucetHint,
				HasRecord:           n.HasRecord,
			})
		}
		return WriteJSON(r.out, entries)
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out)
	t.AppendHeader(table.Row{"NETWORK", "CHAIN ID", "CREDENTIALS", "MIN BALANCE", "FAUCET", "DEPLOYED"})
	for _, n := range result.Networks {
		credentials := faint("no")
		if n.Profile.RequiresCredentials {
			credentials = "required"
		}
		deployed := ""
		if n.HasRecord {
			deployed = "✓"
		}
		t.AppendRow(table.Row{
			bold(n.Profile.Name),
			n.Profile.ChainID,
			credentials,
			domain.FormatEther(n.Profile.Threshold()) + " ETH",
			n.Profile.FaucetHint,
			deployed,
		})
	}
	t.Render()

	return nil
}
