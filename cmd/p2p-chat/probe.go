package main

import (
	"fmt"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/transport/tcp"

	"github.com/spf13/cobra"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe [host:port]",
	Short: "Check whether a peer accepts connections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !tcp.Probe(args[0], probeTimeout) {
			return fmt.Errorf("%s is offline", args[0])
		}
		fmt.Printf("%s is online\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", tcp.DefaultProbeTimeout, "connect timeout")
}
