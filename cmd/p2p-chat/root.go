package main

import (
	"os"

	"tarun-kavipurapu/p2p-chat/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	logDir   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "p2p-chat",
	Short: "P2P Text Messaging",
	Long: `A minimal peer-to-peer messenger. Every peer listens for messages on its own
port and delivers messages by dialing other peers directly. There is no server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Setup(logDir, logLevel)
	},
}

func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		logger.Sugar.Error(err)
		logger.Sync()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "logs", "Directory for the log file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $P2P_LOG_LEVEL or $LOG_LEVEL")
}
