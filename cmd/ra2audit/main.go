// Ra2audit is an audit tool for Lutron RadioRA 2 lighting installations.
//
// It discovers the controller on the local subnet, speaks the telnet
// integration protocol for zone control, cross-references the controller's
// device inventory against a smart-home accessory registry export, and
// runs a brightness trim test against the installation's dimmers.
//
// Usage:
//
//	ra2audit [command] [flags]
//
// See 'ra2audit --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ra2audit/internal/logging"
	"ra2audit/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ra2audit",
	Short: "RadioRA 2 Installation Audit Tool",
	Long: `An audit tool for Lutron RadioRA 2 lighting installations.

Discovers the controller on the local subnet, controls and inspects zones
over the telnet integration protocol, reconciles the controller's device
inventory against a smart-home accessory registry export, and tests
dimmers for high-end brightness trim.`,
	Version: version.Version,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ra2audit %s (commit: %s)\n", version.Version, version.Commit)
	},
}
