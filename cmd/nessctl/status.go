package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "request a full status refresh and print the resulting arming state",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())
		if err := c.UpdateStatus(context.Background()); err != nil {
			log.WithError(err).Fatal("nessctl: status request failed")
		}
		log.Infof("arming state: %s", c.Arming())
	},
}
