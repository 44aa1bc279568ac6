package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smazurov/touptek/pkg/toupcam"
)

// CreateListCmd creates the list command.
func CreateListCmd() *cobra.Command {
	var flags cameraFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connected cameras",
		Long:  `Enumerates connected ToupTek cameras and prints their id, model and preview resolutions.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initLogging(false)
			if err := flags.load(); err != nil {
				return err
			}
			list, err := toupcam.Enumerate()
			if err != nil {
				return fmt.Errorf("enumerate: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(os.Stderr, "No cameras found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tFLAGS\tPREVIEW")
			for _, inst := range list {
				res := make([]string, len(inst.Model.PreviewResolutions))
				for i, r := range inst.Model.PreviewResolutions {
					res[i] = r.String()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", inst.ID, inst.DisplayName, inst.Model.Flags, strings.Join(res, ","))
			}
			return tw.Flush()
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
