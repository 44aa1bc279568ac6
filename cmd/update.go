package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/touptek/internal/updater"
)

// CreateUpdateCmd creates the update command.
func CreateUpdateCmd() *cobra.Command {
	var opts updater.Options
	var checkOnly, asJSON bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update toupnode to the latest release",
		Long: `Checks GitHub for a newer toupnode release and replaces the running binary. ` +
			`Restart the service afterwards, for example with systemctl restart toupnode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initLogging(false)
			up, err := updater.New(opts)
			if err != nil {
				return err
			}

			var info *updater.UpdateInfo
			if checkOnly {
				info, _, err = up.Check(cmd.Context())
			} else {
				info, err = up.Apply(cmd.Context())
				if errors.Is(err, &updater.Error{Code: updater.ErrCodeNoUpdate}) {
					err = nil
				}
			}
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			}
			switch {
			case !info.UpdateAvailable:
				fmt.Fprintf(cmd.OutOrStdout(), "Up to date (%s)\n", info.CurrentVersion)
			case checkOnly:
				fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n%s\n", info.CurrentVersion, info.LatestVersion, info.ReleaseURL)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Repository, "repo", updater.DefaultRepository, "GitHub repository slug")
	cmd.Flags().BoolVar(&opts.Prerelease, "prerelease", false, "Include prereleases")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report whether an update exists")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
