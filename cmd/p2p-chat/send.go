package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tarun-kavipurapu/p2p-chat/peer"
	"tarun-kavipurapu/p2p-chat/pkg/protocol"
	"tarun-kavipurapu/p2p-chat/pkg/transport/tcp"

	"github.com/spf13/cobra"
)

var (
	sendFrom         string
	sendTo           string
	sendProbeTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a single message to host:port and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !peer.IsAddress(sendTo) {
			return fmt.Errorf("bad --to %q: %w", sendTo, peer.ErrUnknownRecipient)
		}
		if sendFrom == "" || strings.Contains(sendFrom, protocol.Delimiter) {
			return fmt.Errorf("bad --from %q", sendFrom)
		}

		// Sending never listens, so the transport needs no bind address.
		trans := tcp.NewTCPTransport("", tcp.Options{})
		sender := peer.NewSender(trans, sendProbeTimeout)

		if err := sender.Send(context.Background(), sendFrom, sendTo, strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Printf("Message sent to %s\n", sendTo)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&sendFrom, "from", "", "username to send as (required)")
	sendCmd.Flags().StringVar(&sendTo, "to", "", "target IP:port (required)")
	sendCmd.Flags().DurationVar(&sendProbeTimeout, "probe-timeout", tcp.DefaultProbeTimeout, "reachability check timeout")
	_ = sendCmd.MarkFlagRequired("from")
	_ = sendCmd.MarkFlagRequired("to")
}
