package controller

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/droidmod/gatepatch/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background; progress
// events are forwarded to it as messages.
func (t *TUI) Start() error {
	t.program = tea.NewProgram(newPatchModel(), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		_, _ = t.program.Run()
		close(t.done)
	}()

	return nil
}

// Close stops the program and waits for it to release the terminal.
func (t *TUI) Close() {
	if t.program == nil {
		return
	}

	t.program.Quit()
	<-t.done
	t.program = nil
}

// StageStarted announces a pipeline stage.
func (t *TUI) StageStarted(stage string) {
	t.send(stageMsg{name: stage})
}

// FeatureStarted announces a feature pass.
func (t *TUI) FeatureStarted(feature string) {
	t.send(featureStartMsg{name: feature})
}

// UnitPatched reports one rewritten class unit.
func (t *TUI) UnitPatched(feature string, unit m.Path) {
	t.send(unitPatchedMsg{feature: feature, unit: string(unit)})
}

// FeatureCompleted reports a feature's ledger delta.
func (t *TUI) FeatureCompleted(result m.FeatureResult) {
	t.send(featureDoneMsg{result: result})
}

// Summary shuts the program down and prints the final table on the
// plain terminal.
func (t *TUI) Summary(report m.PatchReport) error {
	t.Close()

	_, err := fmt.Fprintf(t.output, "\n%s", renderSummary(report))

	return err
}

func (t *TUI) send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}
