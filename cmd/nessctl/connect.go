package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(connectCmd)
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "connect to the panel once and report the resulting arming state",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())
		log.Infof("nessctl: connected, arming state %s", c.Arming())
	},
}
