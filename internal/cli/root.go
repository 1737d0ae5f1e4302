// Package cli implements the fortimigrate command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Flarenzy/fortimigrate/internal/meraki"
)

const (
	keyAPIKey   = "api_key"
	keyBaseURL  = "base_url"
	keyLogLevel = "log_level"

	envAPIKey = "MERAKI_DASHBOARD_API_KEY"
)

// Dashboard is the part of the Meraki Dashboard API the commands use.
type Dashboard interface {
	Organizations(ctx context.Context) ([]meraki.Organization, error)
	SearchNetworks(ctx context.Context, orgID, query string) ([]meraki.Network, error)
	Export(ctx context.Context, networkID string) (meraki.NetworkExport, error)
}

type DashboardFactory func(apiKey, baseURL string, logger *slog.Logger) (Dashboard, error)

func NewDashboard(apiKey, baseURL string, logger *slog.Logger) (Dashboard, error) {
	client, err := meraki.NewClient(apiKey, meraki.OptionBaseURL(baseURL), meraki.OptionLogger(logger))
	if err != nil {
		return nil, err
	}
	return client, nil
}

type root struct {
	v            *viper.Viper
	newDashboard DashboardFactory
}

// NewRootCommand builds the command tree. newDashboard is called lazily so
// that file based conversions never need an API key.
func NewRootCommand(newDashboard DashboardFactory) *cobra.Command {
	r := &root{v: viper.New(), newDashboard: newDashboard}

	cmd := &cobra.Command{
		Use:           "fortimigrate",
		Short:         "Convert Meraki appliance VLANs into FortiOS configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("api-key", "", "Meraki Dashboard API key (env "+envAPIKey+")")
	flags.String("base-url", meraki.DefaultBaseURL, "Meraki Dashboard API base URL")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = r.v.BindPFlag(keyAPIKey, flags.Lookup("api-key"))
	_ = r.v.BindPFlag(keyBaseURL, flags.Lookup("base-url"))
	_ = r.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = r.v.BindEnv(keyAPIKey, envAPIKey)

	cmd.AddCommand(
		r.convertCommand(),
		r.inventoryCommand(),
		r.networksCommand(),
		r.organizationsCommand(),
	)
	return cmd
}

func (r *root) logger(cmd *cobra.Command) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(r.v.GetString(keyLogLevel)))); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (r *root) dashboard(cmd *cobra.Command) (Dashboard, error) {
	return r.newDashboard(r.v.GetString(keyAPIKey), r.v.GetString(keyBaseURL), r.logger(cmd))
}

// source selects where a network export comes from.
type source struct {
	input     string
	networkID string
}

func (s *source) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "network export file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&s.networkID, "network-id", "n", "", "fetch the network from the Dashboard API")
	cmd.MarkFlagsOneRequired("input", "network-id")
	cmd.MarkFlagsMutuallyExclusive("input", "network-id")
}

func (r *root) load(cmd *cobra.Command, s source) (meraki.NetworkExport, error) {
	if s.input != "" {
		return meraki.LoadFile(s.input)
	}

	dashboard, err := r.dashboard(cmd)
	if err != nil {
		return meraki.NetworkExport{}, err
	}
	export, err := dashboard.Export(cmd.Context(), s.networkID)
	if err != nil {
		return meraki.NetworkExport{}, fmt.Errorf("fetch network %s: %w", s.networkID, err)
	}
	return export, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
