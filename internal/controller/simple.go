package controller

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/droidmod/gatepatch/internal/model"
)

var (
	stageStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	featureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	patchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start() error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {
}

// StageStarted announces a pipeline stage.
func (s *SimpleUI) StageStarted(stage string) {
	s.printf("%s\n", stageStyle.Render("==> "+stage))
}

// FeatureStarted announces a feature pass.
func (s *SimpleUI) FeatureStarted(feature string) {
	s.printf("  %s\n", featureStyle.Render(feature))
}

// UnitPatched reports one rewritten class unit.
func (s *SimpleUI) UnitPatched(_ string, unit m.Path) {
	s.printf("    %s %s\n", patchStyle.Render("patched"), unit)
}

// FeatureCompleted reports a feature's ledger delta.
func (s *SimpleUI) FeatureCompleted(result m.FeatureResult) {
	s.printf("  %s: applied=%d skipped=%d failed=%d\n",
		result.Feature, result.Ledger.Applied, result.Ledger.Skipped, result.Ledger.Failed)
}

// Summary renders the final report table.
func (s *SimpleUI) Summary(report m.PatchReport) error {
	s.printf("\n%s", renderSummary(report))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// renderSummary is shared by both UIs.
func renderSummary(report m.PatchReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Feature", "Applied", "Skipped", "Failed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, fr := range report.Features {
		table.Append([]string{
			fr.Feature,
			fmt.Sprintf("%d", fr.Ledger.Applied),
			fmt.Sprintf("%d", fr.Ledger.Skipped),
			fmt.Sprintf("%d", fr.Ledger.Failed),
		})
	}

	totals := report.Totals
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", totals.Applied),
		fmt.Sprintf("%d", totals.Skipped),
		fmt.Sprintf("%d", totals.Failed),
	})

	table.Render()

	out := tableBuffer.String()

	if report.Package.Package != "" {
		out = fmt.Sprintf("package: %s\n%s", report.Package.Package, out)
	}

	if report.Rename != nil {
		out += fmt.Sprintf("renamed: %s -> %s\n", report.Rename.Old, report.Rename.New)
	}

	if report.Output != "" {
		out += fmt.Sprintf("output: %s\n", report.Output)
	}

	return out
}
