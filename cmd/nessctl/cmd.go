// Command nessctl talks to a Ness D8x/D16x/D32x panel over TCP or serial:
// arm, disarm, request a status refresh, or stream decoded events.
package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd is the entry point. Subcommands register themselves onto it
// from their own init functions, following the teacher's pack-wide
// convention for multi-command cobra trees.
var rootCmd = &cobra.Command{
	Use:   "nessctl",
	Short: "control and monitor a Ness alarm panel",
}

var (
	host         string
	port         int
	serialDevice string
	code         string
	timeoutSec   int
	configPath   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "panel IP232 host (mutually exclusive with --serial)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 2401, "panel IP232 port")
	rootCmd.PersistentFlags().StringVar(&serialDevice, "serial", "", "serial device path (mutually exclusive with --host)")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 10, "connect timeout, seconds")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides --host/--port/--serial/--timeout)")
}

func main() {
	log.SetLevel(log.InfoLevel)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
