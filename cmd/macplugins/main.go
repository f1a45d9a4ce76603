package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"macplugins/internal/version"
)

// errReported означает, что причина уже напечатана в виде диагностик.
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "macplugins",
	Short: "Expand #buildURLRequest, @OSLogger and @Equatable in Swift sources",
	Long: `macplugins expands the MacpluginsMacros macros in Swift source files,
reports their diagnostics and serves them to a host compiler as an
out-of-process plugin`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.Version = version.Plain()

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(macrosCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace|debug|info|warn|error|disabled)")
	rootCmd.PersistentFlags().String("config", "", "path to macplugins.toml (default: search upwards)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this file")
}

// main runs the root command under a context cancelled by SIGINT/SIGTERM and
// exits with status 1 when the command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if profErr := current.profile.Stop(); profErr != nil {
		fmt.Fprintln(os.Stderr, "profiling:", profErr)
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
