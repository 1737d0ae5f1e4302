package cli

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (r *root) networksCommand() *cobra.Command {
	var orgID, search string

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List the networks of an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard, err := r.dashboard(cmd)
			if err != nil {
				return err
			}
			networks, err := dashboard.SearchNetworks(cmd.Context(), orgID, search)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printf(w, "ID\tNAME\tPRODUCTS\n")
			for _, n := range networks {
				printf(w, "%s\t%s\t%s\n", n.ID, n.Name, strings.Join(n.ProductTypes, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization ID")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive substring of the network name")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func (r *root) organizationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "organizations",
		Aliases: []string{"orgs"},
		Short:   "List the organizations the API key can access",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard, err := r.dashboard(cmd)
			if err != nil {
				return err
			}
			orgs, err := dashboard.Organizations(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printf(w, "ID\tNAME\n")
			for _, o := range orgs {
				printf(w, "%s\t%s\n", o.ID, o.Name)
			}
			return w.Flush()
		},
	}
}
