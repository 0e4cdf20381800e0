package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend %s unreachable: %w", a.cfg.APIURL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.cfg.APIURL, resp.Message)
			return nil
		},
	}
}
