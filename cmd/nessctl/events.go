package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "stream decoded panel events until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		c := connectOrFatal()
		defer c.Close(context.Background())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		feed := c.Events()
		defer feed.Close()
		for {
			item, err := feed.Next(ctx)
			if err != nil {
				return
			}
			if item.Overflow {
				log.Warnf("nessctl: dropped %d events, reader fell behind", item.Dropped)
				continue
			}
			log.Info(item.Value)
		}
	},
}
