package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var auxOutput int
var auxOn bool

func init() {
	auxCmd.Flags().IntVar(&auxOutput, "output", 1, "auxiliary output id")
	auxCmd.Flags().BoolVar(&auxOn, "on", false, "switch the output on instead of off")
	rootCmd.AddCommand(auxCmd)
}

var auxCmd = &cobra.Command{
	Use:   "aux",
	Short: "switch an auxiliary output on or off",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())
		if err := c.Aux(context.Background(), auxOutput, auxOn); err != nil {
			log.WithError(err).Fatal("nessctl: aux command failed")
		}
	},
}
