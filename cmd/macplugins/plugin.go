package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"macplugins/internal/plugin"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Serve macro expansion requests from a host compiler on stdin/stdout",
	Long: `Plugin speaks the length-prefixed JSON plugin protocol on stdin and
stdout until the host closes stdin. Logs go to stderr`,
	Args: cobra.NoArgs,
	RunE: runPlugin,
}

func runPlugin(cmd *cobra.Command, _ []string) error {
	logger := zerolog.Ctx(cmd.Context()).With().Str("component", "plugin").Logger()
	srv := plugin.NewServer(current.registry(), logger)
	logger.Info().Int("protocol", plugin.ProtocolVersion).Int("macros", len(srv.Registry.All())).Msg("serving")
	err := srv.Serve(cmd.Context(), os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
