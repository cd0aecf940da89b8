package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/droidmod/gatepatch/internal/adapter"
	"github.com/droidmod/gatepatch/internal/controller"
	m "github.com/droidmod/gatepatch/internal/model"
)

// PatchArgs configures one full patch run.
type PatchArgs struct {
	Input        m.Path
	Output       m.Path
	WorkDir      m.Path // temp dir when empty
	Features     []m.Feature
	Mode         ScopeMode
	Rename       bool
	RenameTarget string
	ReportPath   m.Path
	KeystoreDir  m.Path
	KeepTree     bool
}

// RenameArgs configures a standalone namespace rename over an already
// decompiled tree.
type RenameArgs struct {
	TreeDir m.Path
	Target  string
}

// Workflow defines the top-level patch pipeline operations.
type Workflow interface {
	Patch(ctx context.Context, args PatchArgs) (m.PatchReport, error)
	Rename(ctx context.Context, args RenameArgs) (m.RenameMapping, error)
	Inspect(ctx context.Context, input m.Path) (m.PackageInfo, error)
}

type workflow struct {
	fs      adapter.SourceFS
	tools   adapter.ToolRunner
	reports adapter.ReportStore
	ui      controller.UI
}

// NewWorkflow creates a Workflow with the provided adapters.
func NewWorkflow(sfs adapter.SourceFS, tools adapter.ToolRunner, reports adapter.ReportStore, ui controller.UI) Workflow {
	return &workflow{fs: sfs, tools: tools, reports: reports, ui: ui}
}

// Patch runs the full pipeline: extract (for bundles), decompile,
// resolve scope, apply features in catalog order, optionally rename the
// namespace, rebuild and sign. The decompile and rebuild steps are the
// fatal boundaries; feature faults stay inside the driver's ledger.
func (w *workflow) Patch(ctx context.Context, args PatchArgs) (m.PatchReport, error) {
	report := m.PatchReport{Input: string(args.Input), CreatedAt: time.Now()}

	if err := w.ui.Start(); err != nil {
		return report, err
	}
	defer w.ui.Close()

	workDir := args.WorkDir
	ownsWorkDir := false

	if workDir == "" {
		tmp, err := w.fs.TempDir("gatepatch-*")
		if err != nil {
			return report, fmt.Errorf("creating work dir: %w", err)
		}

		workDir = tmp
		ownsWorkDir = true
	}

	apk := args.Input

	if adapter.IsBundle(apk) {
		w.ui.StageStarted("extracting bundle")

		base, err := adapter.ExtractBundle(ctx, apk, m.Path(filepath.Join(string(workDir), "bundle")))
		if err != nil {
			return report, fmt.Errorf("extracting bundle: %w", err)
		}

		apk = base
	}

	treeDir := m.Path(filepath.Join(string(workDir), "tree"))

	w.ui.StageStarted("decompiling")

	if err := w.tools.Decompile(ctx, apk, treeDir); err != nil {
		return report, fmt.Errorf("decompiling: %w", err)
	}

	info, err := adapter.DecodePackageInfo(w.fs, treeDir)
	if err != nil {
		return report, fmt.Errorf("decoding package descriptor: %w", err)
	}

	report.Package = info

	roots, err := adapter.SmaliRoots(w.fs, treeDir)
	if err != nil {
		return report, err
	}

	if len(roots) == 0 {
		return report, fmt.Errorf("no class-tree roots under %s", treeDir)
	}

	boundary := ResolveScope(w.fs, info.Package, roots)

	driver := NewDriver(w.fs, boundary, args.Mode)
	driver.OnPatch = w.ui.UnitPatched

	w.ui.StageStarted("applying features")

	for _, feature := range args.Features {
		w.ui.FeatureStarted(feature.Name)

		result := m.FeatureResult{
			Feature: feature.Name,
			Ledger:  driver.ApplyFeature(feature, roots),
		}

		report.Features = append(report.Features, result)
		w.ui.FeatureCompleted(result)
	}

	report.Totals = report.Total()

	if args.Rename {
		w.ui.StageStarted("renaming namespace")

		mapping := m.RenameMapping{Old: info.Package, New: args.RenameTarget}
		if mapping.New == "" {
			mapping.New = GenerateTarget(info.Package, time.Now())
		}

		descriptor := m.Path(filepath.Join(string(treeDir), adapter.ManifestFileName))
		if err := NewRenamer(w.fs).Apply(mapping, descriptor, roots); err != nil {
			// No rollback; the whole pass is failed and the tree must
			// be discarded by the caller.
			return report, fmt.Errorf("renaming namespace: %w", err)
		}

		report.Rename = &mapping
	}

	output := args.Output
	if output == "" {
		output = defaultOutputPath(args.Input)
	}

	w.ui.StageStarted("rebuilding")

	if err := w.tools.Build(ctx, treeDir, output); err != nil {
		// The rebuild is the structural-validity check for every
		// rewrite; keep the tree around for inspection.
		return report, fmt.Errorf("rebuild failed, tree preserved at %s: %w", treeDir, err)
	}

	w.ui.StageStarted("signing")

	cert, key, err := adapter.EnsureSigningMaterial(args.KeystoreDir)
	if err != nil {
		return report, err
	}

	if err := w.tools.Sign(ctx, output, cert, key); err != nil {
		return report, fmt.Errorf("signing: %w", err)
	}

	report.Output = string(output)

	if args.ReportPath != "" {
		if err := w.reports.Save(args.ReportPath, report); err != nil {
			return report, fmt.Errorf("saving report: %w", err)
		}
	}

	if err := w.ui.Summary(report); err != nil {
		return report, err
	}

	if ownsWorkDir && !args.KeepTree {
		_ = w.fs.RemoveAll(workDir)
	}

	return report, nil
}

// Rename applies a standalone namespace rename to a decompiled tree.
func (w *workflow) Rename(_ context.Context, args RenameArgs) (m.RenameMapping, error) {
	info, err := adapter.DecodePackageInfo(w.fs, args.TreeDir)
	if err != nil {
		return m.RenameMapping{}, fmt.Errorf("decoding package descriptor: %w", err)
	}

	roots, err := adapter.SmaliRoots(w.fs, args.TreeDir)
	if err != nil {
		return m.RenameMapping{}, err
	}

	mapping := m.RenameMapping{Old: info.Package, New: args.Target}
	if mapping.New == "" {
		mapping.New = GenerateTarget(info.Package, time.Now())
	}

	descriptor := m.Path(filepath.Join(string(args.TreeDir), adapter.ManifestFileName))
	if err := NewRenamer(w.fs).Apply(mapping, descriptor, roots); err != nil {
		return mapping, err
	}

	return mapping, nil
}

// Inspect decodes the package descriptor of either a decompiled tree or
// a packaged artifact (decompiled into a throwaway directory).
func (w *workflow) Inspect(ctx context.Context, input m.Path) (m.PackageInfo, error) {
	if info, err := w.fs.Stat(input); err == nil && info.IsDir() {
		return adapter.DecodePackageInfo(w.fs, input)
	}

	tmp, err := w.fs.TempDir("gatepatch-inspect-*")
	if err != nil {
		return m.PackageInfo{}, err
	}

	defer func() { _ = w.fs.RemoveAll(tmp) }()

	treeDir := m.Path(filepath.Join(string(tmp), "tree"))

	if err := w.tools.Decompile(ctx, input, treeDir); err != nil {
		return m.PackageInfo{}, fmt.Errorf("decompiling: %w", err)
	}

	return adapter.DecodePackageInfo(w.fs, treeDir)
}

func defaultOutputPath(input m.Path) m.Path {
	base := string(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return m.Path(base + "-patched.apk")
}
