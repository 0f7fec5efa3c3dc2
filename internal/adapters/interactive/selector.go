package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed but prompting is disabled
var ErrNonInteractive = errors.New("interactive prompt not available in non-interactive mode")

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectNetwork lets the user pick a network, searching fuzzily by name
func (s *SelectorAdapter) SelectNetwork(ctx context.Context, networks []*domain.NetworkProfile) (string, error) {
	if s.config.NonInteractive {
		return "", ErrNonInteractive
	}
	if len(networks) == 0 {
		return "", fmt.Errorf("no networks to choose from")
	}

	names := make([]string, len(networks))
	for i, network := range networks {
		names[i] = network.Name
	}
	options := formatNetworkOptions(networks)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Type to search, arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select target network",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(names),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return names[index], nil
}

// Confirm asks a yes/no question. Anything but an explicit yes is a no.
func (s *SelectorAdapter) Confirm(ctx context.Context, message string) (bool, error) {
	if s.config.AssumeYes {
		return true, nil
	}
	if s.config.NonInteractive {
		return false, ErrNonInteractive
	}

	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, context.Canceled
		}
		return false, err
	}
	return true, nil
}

// formatNetworkOptions creates display strings for network selection
func formatNetworkOptions(networks []*domain.NetworkProfile) []string {
	options := make([]string, len(networks))
	for i, network := range networks {
		name := color.New(color.FgWhite, color.Bold).Sprint(network.Name)
		chain := color.New(color.FgBlue).Sprintf("chain %d", network.ChainID)
		if network.RequiresCredentials {
			options[i] = fmt.Sprintf("%s (%s) %s", name, chain, color.New(color.FgYellow).Sprint("[credentials]"))
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, chain)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.InteractivePrompter = (*SelectorAdapter)(nil)
