package controller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/droidmod/gatepatch/internal/model"
)

const recentUnitsShown = 5

// patchModel is the Bubble Tea model for a live patch run: current
// stage, current feature, a short tail of recently patched units and
// the per-feature results so far.
type patchModel struct {
	spin      spinner.Model
	stage     string
	feature   string
	recent    []string
	patched   int
	completed []m.FeatureResult
	quitting  bool
}

func newPatchModel() patchModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return patchModel{spin: spin}
}

func (pm patchModel) Init() tea.Cmd {
	return pm.spin.Tick
}

func (pm patchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			pm.quitting = true

			return pm, tea.Quit
		}

		return pm, nil

	case stageMsg:
		pm.stage = msg.name
		pm.feature = ""
		pm.recent = nil

		return pm, nil

	case featureStartMsg:
		pm.feature = msg.name
		pm.recent = nil

		return pm, nil

	case unitPatchedMsg:
		pm.patched++

		pm.recent = append(pm.recent, msg.unit)
		if len(pm.recent) > recentUnitsShown {
			pm.recent = pm.recent[len(pm.recent)-recentUnitsShown:]
		}

		return pm, nil

	case featureDoneMsg:
		pm.completed = append(pm.completed, msg.result)
		pm.feature = ""

		return pm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spin, cmd = pm.spin.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm patchModel) View() string {
	if pm.quitting {
		return ""
	}

	var b strings.Builder

	header := pm.stage
	if header == "" {
		header = "starting"
	}

	b.WriteString(fmt.Sprintf("%s %s\n", pm.spin.View(), stageStyle.Render(header)))

	if pm.feature != "" {
		b.WriteString(fmt.Sprintf("  %s\n", featureStyle.Render(pm.feature)))
	}

	for _, unit := range pm.recent {
		b.WriteString(fmt.Sprintf("    %s %s\n", patchStyle.Render("patched"), unit))
	}

	for _, fr := range pm.completed {
		b.WriteString(fmt.Sprintf("  %s applied=%d skipped=%d failed=%d\n",
			fr.Feature, fr.Ledger.Applied, fr.Ledger.Skipped, fr.Ledger.Failed))
	}

	b.WriteString(fmt.Sprintf("\n  %d units patched\n", pm.patched))

	return b.String()
}
