package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"tarun-kavipurapu/p2p-chat/peer"
	"tarun-kavipurapu/p2p-chat/pkg/logger"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
)

var (
	peerUser  string
	peerHost  string
	peerPort  int
	peerPlain bool
	peerCfg   = peer.DefaultConfig()
)

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "Start a chat peer and open the command shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		readLine := peer.LineReader(os.Stdin)

		user, err := askIfEmpty(readLine, "Enter your username: ", peerUser)
		if err != nil {
			return err
		}
		port := peerPort
		if port == 0 {
			portStr, err := askIfEmpty(readLine, "Enter your port: ", "")
			if err != nil {
				return err
			}
			if port, err = strconv.Atoi(portStr); err != nil {
				return fmt.Errorf("invalid port %q: %w", portStr, err)
			}
		}

		cfg := peerCfg
		cfg.Username = user
		cfg.ListenAddr = net.JoinHostPort(peerHost, strconv.Itoa(port))
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Printf("Address: %s\n", cfg.ListenAddr)

		p := peer.NewPeerServer(cfg)
		if err := p.Start(); err != nil {
			// Without a listener this process cannot receive anything.
			return fmt.Errorf("error starting peer server: %w", err)
		}
		defer func() {
			if err := p.Stop(); err != nil {
				logger.Sugar.Errorf("[PeerServer] stop failed: %v", err)
			}
		}()

		shell := peer.NewShell(p, os.Stdout, readLine)

		if peerPlain {
			err = shell.Run("> ")
		} else {
			fmt.Println("P2P Chat Interactive Shell")
			fmt.Println("Type 'help' for commands.")

			quit := false
			prompt.New(
				func(in string) { quit = shell.Execute(in) },
				peerCompleter,
				prompt.OptionPrefix(cfg.Username+"> "),
				prompt.OptionTitle("P2P Chat"),
				prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
					return breakline && quit
				}),
			).Run()
		}

		fmt.Println("Program ended")
		return err
	},
}

func askIfEmpty(readLine func() (string, error), question, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Println(question)
	line, err := readLine()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func peerCompleter(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "send", Description: `Send a message: send <address|name> "<message>"`},
		{Text: "add", Description: "Add a contact: add <name> <address>"},
		{Text: "print", Description: "print contacts"},
		{Text: "listen", Description: "Show incoming messages until enter"},
		{Text: "probe", Description: "Check whether a recipient is online"},
		{Text: "status", Description: "Show peer status"},
		{Text: "help", Description: "Show help"},
		{Text: "quit", Description: "Exit the peer"},
	}
	return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
}

func init() {
	rootCmd.AddCommand(peerCmd)
	peerCmd.Flags().StringVarP(&peerUser, "user", "u", "", "Username shown to recipients (prompted if empty)")
	peerCmd.Flags().StringVar(&peerHost, "host", "127.0.0.1", "Host to listen on")
	peerCmd.Flags().IntVarP(&peerPort, "port", "p", 0, "Port to listen on (prompted if 0)")
	peerCmd.Flags().BoolVar(&peerPlain, "plain", false, "Read commands line by line instead of the interactive prompt")
	peerCmd.Flags().DurationVar(&peerCfg.ProbeTimeout, "probe-timeout", peerCfg.ProbeTimeout, "Reachability check timeout before each send")
	peerCmd.Flags().DurationVar(&peerCfg.PollInterval, "poll-interval", peerCfg.PollInterval, "How often listen mode prints new messages")
	peerCmd.Flags().IntVar(&peerCfg.ReadBufferSize, "read-buffer", peerCfg.ReadBufferSize, "Maximum bytes read from one inbound connection")
	peerCmd.Flags().DurationVar(&peerCfg.ReadTimeout, "read-timeout", peerCfg.ReadTimeout, "Deadline for reading one inbound frame")
	peerCmd.Flags().DurationVar(&peerCfg.MetricsInterval, "metrics-interval", 0, "Log metrics at this interval (0 disables)")
}
