package cmd

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/droidmod/gatepatch/internal/domain"
)

// featuresCmd represents the features command.
var featuresCmd = newFeaturesCmd()

func newFeaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the feature catalog",
		Long: `Features lists every patching feature in its fixed application order,
with its confidence tag and default toggle.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var buffer bytes.Buffer

			table := tablewriter.NewWriter(&buffer)
			table.SetHeader([]string{"Feature", "Confidence", "Default", "Description"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetColumnAlignment([]int{
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_CENTER,
				tablewriter.ALIGN_CENTER,
				tablewriter.ALIGN_LEFT,
			})

			for _, feature := range domain.Catalog() {
				enabled := "off"
				if feature.Default {
					enabled = "on"
				}

				table.Append([]string{
					feature.Name,
					string(feature.Confidence),
					enabled,
					feature.Description,
				})
			}

			table.Render()
			cmd.Print(buffer.String())

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
