package controller

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/droidmod/gatepatch/internal/model"
)

func applyMsg(t *testing.T, pm patchModel, msg tea.Msg) patchModel {
	t.Helper()

	updated, _ := pm.Update(msg)

	next, ok := updated.(patchModel)
	if !ok {
		t.Fatalf("Update returned %T, want patchModel", updated)
	}

	return next
}

func TestPatchModel_Update(t *testing.T) {
	pm := newPatchModel()

	pm = applyMsg(t, pm, stageMsg{name: "applying features"})
	if pm.stage != "applying features" {
		t.Errorf("stage = %q", pm.stage)
	}

	pm = applyMsg(t, pm, featureStartMsg{name: "vip-unlock"})
	if pm.feature != "vip-unlock" {
		t.Errorf("feature = %q", pm.feature)
	}

	for i := 0; i < recentUnitsShown+3; i++ {
		pm = applyMsg(t, pm, unitPatchedMsg{feature: "vip-unlock", unit: "Unit.smali"})
	}

	if pm.patched != recentUnitsShown+3 {
		t.Errorf("patched = %d", pm.patched)
	}
	if len(pm.recent) != recentUnitsShown {
		t.Errorf("recent tail not capped: %d", len(pm.recent))
	}

	pm = applyMsg(t, pm, featureDoneMsg{result: m.FeatureResult{
		Feature: "vip-unlock",
		Ledger:  m.Ledger{Applied: 8},
	}})

	if pm.feature != "" {
		t.Error("feature not cleared after completion")
	}
	if len(pm.completed) != 1 {
		t.Errorf("completed = %d", len(pm.completed))
	}
}

func TestPatchModel_View(t *testing.T) {
	pm := newPatchModel()
	pm = applyMsg(t, pm, stageMsg{name: "decompiling"})

	view := pm.View()
	if !strings.Contains(view, "decompiling") {
		t.Errorf("view missing stage:\n%s", view)
	}

	t.Run("quit key empties the view", func(t *testing.T) {
		quit := applyMsg(t, pm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		if quit.View() != "" {
			t.Error("expected empty view after quit")
		}
	})
}
