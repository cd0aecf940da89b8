package controller

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "github.com/droidmod/gatepatch/internal/model"
)

func newBufferedUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_Progress(t *testing.T) {
	ui, buf := newBufferedUI()

	if err := ui.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer ui.Close()

	ui.StageStarted("applying features")
	ui.FeatureStarted("vip-unlock")
	ui.UnitPatched("vip-unlock", "smali/com/example/app/model/UserModel.smali")
	ui.FeatureCompleted(m.FeatureResult{
		Feature: "vip-unlock",
		Ledger:  m.Ledger{Applied: 1},
	})

	out := buf.String()

	for _, want := range []string{
		"applying features",
		"vip-unlock",
		"patched",
		"UserModel.smali",
		"applied=1 skipped=0 failed=0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleUI_Summary(t *testing.T) {
	ui, buf := newBufferedUI()

	report := m.PatchReport{
		Input:  "app.apk",
		Output: "app-patched.apk",
		Package: m.PackageInfo{
			Package: "com.example.app",
		},
		Features: []m.FeatureResult{
			{Feature: "vip-unlock", Ledger: m.Ledger{Applied: 2}},
			{Feature: "coin-zero", Ledger: m.Ledger{Skipped: 1}},
		},
		Rename: &m.RenameMapping{Old: "com.example.app", New: "com.example.app.mod7"},
	}
	report.Totals = report.Total()

	if err := ui.Summary(report); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"vip-unlock",
		"coin-zero",
		"package: com.example.app",
		"renamed: com.example.app -> com.example.app.mod7",
		"output: app-patched.apk",
		"Total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
