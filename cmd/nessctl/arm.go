package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	for _, c := range []*cobra.Command{armAwayCmd, armHomeCmd, disarmCmd, panicCmd} {
		c.Flags().StringVar(&code, "code", "", "user code")
		if err := c.MarkFlagRequired("code"); err != nil {
			log.Fatal(err)
		}
		rootCmd.AddCommand(c)
	}
}

var armAwayCmd = &cobra.Command{
	Use:   "arm-away",
	Short: "arm every area in away mode",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())
		if err := c.ArmAway(context.Background(), code); err != nil {
			log.WithError(err).Fatal("nessctl: arm-away failed")
		}
	},
}

var armHomeCmd = &cobra.Command{
	Use:   "arm-home",
	Short: "arm every area in home (stay) mode",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())
		if err := c.ArmHome(context.Background(), code); err != nil {
			log.WithError(err).Fatal("nessctl: arm-home failed")
		}
	},
}

var disarmCmd = &cobra.Command{
	Use:   "disarm",
	Short: "disarm",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())
		if err := c.Disarm(context.Background(), code); err != nil {
			log.WithError(err).Fatal("nessctl: disarm failed")
		}
	},
}

var panicCmd = &cobra.Command{
	Use:   "panic",
	Short: "raise a duress/panic condition",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())
		if err := c.Panic(context.Background(), code); err != nil {
			log.WithError(err).Fatal("nessctl: panic command failed")
		}
	},
}
