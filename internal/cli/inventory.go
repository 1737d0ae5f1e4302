package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Flarenzy/fortimigrate/internal/inventory"
	"github.com/Flarenzy/fortimigrate/internal/meraki"
)

func (r *root) inventoryCommand() *cobra.Command {
	var (
		src    source
		output string
	)

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Write a VLAN and reservation workbook for one network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			export, err := r.load(cmd, src)
			if err != nil {
				return err
			}
			network, err := meraki.ToDomain(export)
			if err != nil {
				return err
			}

			buf, err := inventory.Workbook(network)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write inventory: %w", err)
			}
			printf(cmd.OutOrStdout(), "wrote %s (%d vlans)\n", output, len(network.VLANs))
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "inventory.xlsx", "workbook path")
	return cmd
}
