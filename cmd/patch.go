package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/droidmod/gatepatch/internal/domain"
	m "github.com/droidmod/gatepatch/internal/model"
)

var patchOutputFlag string
var patchWorkDirFlag string
var patchReportFlag string
var patchRenameFlag bool
var patchRenameToFlag string
var patchExpandedFlag bool
var patchKeepTreeFlag bool
var patchEnableFlags []string
var patchDisableFlags []string

// patchCmd represents the patch command.
var patchCmd = newPatchCmd()

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <apk|bundle>",
		Short: "Decompile, patch feature gates, rebuild and sign",
		Long: `Patch runs the full pipeline over an APK or split bundle (.apks/.xapk):
decompile, apply every enabled feature in catalog order, optionally rename
the package namespace, rebuild and sign.

Low-confidence features (login-bypass, integrity-bypass, vpn-bypass) edit
instructions in place instead of replacing whole bodies and stay disabled
unless named with --enable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Enable = append(cfg.Enable, patchEnableFlags...)
			cfg.Disable = append(cfg.Disable, patchDisableFlags...)

			mode := domain.ScopeDefault
			if patchExpandedFlag || cfg.ExpandedScope {
				mode = domain.ScopeExpanded
			}

			input := m.Path(args[0])

			reportPath := m.Path(patchReportFlag)
			if reportPath == "" && cfg.ReportDir != "" {
				reportPath = m.Path(filepath.Join(cfg.ReportDir, reportBaseName(input)))
			}

			_, err := workflow.Patch(cmd.Context(), domain.PatchArgs{
				Input:        input,
				Output:       m.Path(patchOutputFlag),
				WorkDir:      m.Path(patchWorkDirFlag),
				Features:     cfg.EnabledFeatures(domain.Catalog()),
				Mode:         mode,
				Rename:       patchRenameFlag || cfg.Rename,
				RenameTarget: firstNonEmpty(patchRenameToFlag, cfg.RenameTarget),
				ReportPath:   reportPath,
				KeystoreDir:  m.Path(cfg.KeystoreDir),
				KeepTree:     patchKeepTreeFlag || cfg.KeepTree,
			})

			return err
		},
	}

	cmd.Flags().StringVarP(&patchOutputFlag, "output", "o", "", "output apk path (default <input>-patched.apk)")
	cmd.Flags().StringVar(&patchWorkDirFlag, "work-dir", "", "working directory for the decompiled tree (default temp)")
	cmd.Flags().StringVar(&patchReportFlag, "report", "", "report file path (default under the report dir)")
	cmd.Flags().BoolVar(&patchRenameFlag, "rename", false, "rename the package namespace after patching")
	cmd.Flags().StringVar(&patchRenameToFlag, "rename-to", "", "explicit rename target (default derived from the old identity)")
	cmd.Flags().BoolVar(&patchExpandedFlag, "expanded", false, "admit the monetization SDK allow-list into scope")
	cmd.Flags().BoolVar(&patchKeepTreeFlag, "keep-tree", false, "keep the working tree after a successful build")
	cmd.Flags().StringArrayVar(&patchEnableFlags, "enable", nil, "enable a feature by name (can be repeated)")
	cmd.Flags().StringArrayVar(&patchDisableFlags, "disable", nil, "disable a feature by name (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(patchCmd)
}

func reportBaseName(input m.Path) string {
	base := filepath.Base(string(input))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return base + ".json"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
