package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	m "github.com/droidmod/gatepatch/internal/model"
)

// inspectCmd represents the inspect command.
var inspectCmd = newInspectCmd()

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <apk|tree-dir>",
		Short: "Decode a package's descriptor into a JSON report",
		Long: `Inspect prints the declared identity, target SDK, permissions and
component declarations of an APK or decompiled tree as JSON. APKs are
decompiled into a throwaway directory first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := workflow.Inspect(cmd.Context(), m.Path(args[0]))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}

			cmd.Println(string(out))

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
