package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/fortios"
	"github.com/Flarenzy/fortimigrate/internal/meraki"
	"github.com/Flarenzy/fortimigrate/internal/settings"
)

type convertOptions struct {
	source
	settingsPath string
	outputDir    string
	stdout       bool
	saveExport   string
}

func (r *root) convertCommand() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Render the FortiOS configuration for one network",
		Example: `  fortimigrate convert --input branch-12.yaml --settings device.toml
  fortimigrate convert --network-id L_646829496481105433 --output-dir out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.runConvert(cmd, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.settingsPath, "settings", "s", "", "device settings TOML file")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", ".", "directory the configuration file is written to")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print the configuration instead of writing a file")
	cmd.Flags().StringVar(&opts.saveExport, "save-export", "", "also save the network export to this file")
	return cmd
}

func (r *root) runConvert(cmd *cobra.Command, opts convertOptions) error {
	device, err := settings.Load(opts.settingsPath)
	if err != nil {
		return err
	}

	export, err := r.load(cmd, opts.source)
	if err != nil {
		return err
	}
	if opts.saveExport != "" {
		if err := meraki.WriteFile(opts.saveExport, export); err != nil {
			return fmt.Errorf("save export: %w", err)
		}
	}

	network, err := meraki.ToDomain(export)
	if err != nil {
		return err
	}

	// Convert never reaches the snapshot store.
	service := domain.NewLoggingConversionService(
		r.logger(cmd),
		domain.NewConversionService(nil, fortios.NewConverter(device)),
	)
	doc, err := service.Convert(cmd.Context(), network)
	if err != nil {
		return err
	}

	if opts.stdout {
		printf(cmd.OutOrStdout(), "%s", doc.String())
		return nil
	}

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := device.Output.OutputPath(opts.outputDir, network.Name, network.ID)
	if err := os.WriteFile(path, []byte(doc.String()), 0o644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	printf(cmd.OutOrStdout(), "wrote %s (%d vlans, %d lines)\n", path, len(network.VLANs), len(doc.Lines))
	return nil
}
