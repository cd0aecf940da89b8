// Package cmd provides the root command and CLI setup for gatepatch.
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/droidmod/gatepatch/internal/adapter"
	"github.com/droidmod/gatepatch/internal/config"
	"github.com/droidmod/gatepatch/internal/controller"
	"github.com/droidmod/gatepatch/internal/domain"
)

var cfgFile string
var noTUIFlag bool

// Wired in PersistentPreRunE; tests may pre-set them to inject fakes.
var cfg *config.Config
var ui controller.UI
var workflow domain.Workflow

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gatepatch",
		Short: "APK feature-gate patcher",
		Long: `Gatepatch decompiles an Android package, flips boolean and integer
feature gates (membership flags, content locks, prices, levels) inside the
application's own classes, then rebuilds and signs the package.

Framework and third-party namespaces are never touched; rewrites replace
whole method bodies with known-safe instruction sequences so the rebuilt
package always reassembles.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			cfg = loaded

			if ui == nil {
				ui = controller.NewUI(cmd, !noTUIFlag && controller.IsTTY(os.Stdout))
			}

			if workflow == nil {
				tools := adapter.NewExecToolRunner(
					cfg.Apktool,
					cfg.Apksigner,
					time.Duration(cfg.ToolTimeoutSec)*time.Second,
				)
				workflow = domain.NewWorkflow(adapter.NewLocalSourceFS(), tools, adapter.NewReportStore(), ui)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default gatepatch.yaml)")
	cmd.PersistentFlags().BoolVar(&noTUIFlag, "no-tui", false, "disable the interactive progress display")

	return cmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
