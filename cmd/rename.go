package cmd

import (
	"github.com/spf13/cobra"

	"github.com/droidmod/gatepatch/internal/domain"
	m "github.com/droidmod/gatepatch/internal/model"
)

var renameToFlag string

// renameCmd represents the rename command.
var renameCmd = newRenameCmd()

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <tree-dir>",
		Short: "Rename the package namespace of a decompiled tree",
		Long: `Rename rewrites the package identity of an already decompiled tree:
the manifest declaration, the namespace directory under every class-tree
root, and every symbolic reference in every class unit.

Without --to the new identity is derived from the old one plus a
time-based suffix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := workflow.Rename(cmd.Context(), domain.RenameArgs{
				TreeDir: m.Path(args[0]),
				Target:  renameToFlag,
			})
			if err != nil {
				return err
			}

			cmd.Printf("renamed %s -> %s\n", mapping.Old, mapping.New)

			return nil
		},
	}

	cmd.Flags().StringVar(&renameToFlag, "to", "", "explicit new package identity")

	return cmd
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
