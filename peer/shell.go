package peer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const helpText = `print contacts                     - prints list of saved contacts
send [address or name] "[message]" - sends a message to a specified recipient
add [name] [address]               - adds a new contact with specified name and IP address
listen                             - prints incoming messages until enter is pressed
probe [address or name]            - checks whether a recipient is online
status                             - shows peer status and message counters
quit                               - ends program promptly`

// command is one tokenized input line. The body is the first double-quoted segment.
type command struct {
	verb    string
	args    []string
	body    string
	hasBody bool
}

func parseCommand(in string) command {
	quoted := strings.Split(strings.TrimSpace(in), `"`)
	fields := strings.Fields(quoted[0])

	var cmd command
	if len(fields) > 0 {
		cmd.verb = fields[0]
		cmd.args = fields[1:]
	}
	if len(quoted) > 1 {
		cmd.body = quoted[1]
		cmd.hasBody = true
	}
	return cmd
}

func (c command) arg(i int) (string, bool) {
	if i < len(c.args) {
		return c.args[i], true
	}
	return "", false
}

// Shell dispatches command lines for one PeerServer.
type Shell struct {
	peer     *PeerServer
	out      io.Writer
	readLine func() (string, error)
}

// NewShell wires a shell to out for printing and readLine for the listen-mode stop line.
func NewShell(p *PeerServer, out io.Writer, readLine func() (string, error)) *Shell {
	return &Shell{
		peer:     p,
		out:      out,
		readLine: readLine,
	}
}

// Execute runs one command line and reports whether the loop should end.
func (s *Shell) Execute(in string) (quit bool) {
	cmd := parseCommand(in)

	switch cmd.verb {
	case "":
		// blank line
	case "send":
		s.send(cmd)
	case "add":
		s.add(cmd)
	case "print":
		s.print(cmd)
	case "listen":
		s.listen()
	case "probe":
		s.probe(cmd)
	case "status":
		fmt.Fprintln(s.out, s.peer.GetStatus())
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintln(s.out, "Input invalid")
	}
	return false
}

// Run reads and executes lines until quit or end of input.
func (s *Shell) Run(prefix string) error {
	for {
		fmt.Fprint(s.out, prefix)
		line, err := s.readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if s.Execute(line) {
			return nil
		}
	}
}

func (s *Shell) send(cmd command) {
	recipient, ok := cmd.arg(0)
	if !ok {
		fmt.Fprintln(s.out, "Recipient not specified")
		return
	}
	if !cmd.hasBody {
		fmt.Fprintln(s.out, "Message not specified")
		return
	}

	addr, err := s.peer.SendTo(context.Background(), recipient, cmd.body)
	switch {
	case err == nil:
		fmt.Fprintf(s.out, "Message sent to %s\n", addr)
	case errors.Is(err, ErrUnknownRecipient):
		fmt.Fprintln(s.out, "Invalid IP or contact name")
	case errors.Is(err, ErrRecipientOffline):
		fmt.Fprintln(s.out, "Recipient is offline!")
	case errors.Is(err, ErrConnectFailed):
		fmt.Fprintf(s.out, "Failed to connect to server at %s\n", addr)
	default:
		fmt.Fprintf(s.out, "Error sending message: %v\n", err)
	}
}

func (s *Shell) add(cmd command) {
	name, ok := cmd.arg(0)
	if !ok {
		fmt.Fprintln(s.out, "Name not specified")
		return
	}
	address, ok := cmd.arg(1)
	if !ok {
		fmt.Fprintln(s.out, "Address not specified")
		return
	}
	s.peer.Contacts().Add(name, address)
}

func (s *Shell) print(cmd command) {
	if what, _ := cmd.arg(0); what != "contacts" {
		fmt.Fprintln(s.out, "Invalid print command")
		return
	}

	fmt.Fprintln(s.out, "Contacts:")
	contacts := s.peer.Contacts().List()
	if len(contacts) == 0 {
		fmt.Fprintln(s.out, "No contacts saved.")
		return
	}
	for i, c := range contacts {
		fmt.Fprintf(s.out, "%d. %s - %s\n", i, c.Name, c.Address)
	}
}

func (s *Shell) listen() {
	fmt.Fprintln(s.out, "Listening for messages, press enter to stop...")
	err := s.peer.Listen(s.out, func() error {
		_, err := s.readLine()
		return err
	})
	if err != nil && err != io.EOF {
		fmt.Fprintf(s.out, "Error reading input: %v\n", err)
	}
}

func (s *Shell) probe(cmd command) {
	recipient, ok := cmd.arg(0)
	if !ok {
		fmt.Fprintln(s.out, "Recipient not specified")
		return
	}
	addr, online, err := s.peer.Probe(recipient)
	switch {
	case err != nil:
		fmt.Fprintln(s.out, "Invalid IP or contact name")
	case online:
		fmt.Fprintf(s.out, "%s is online\n", addr)
	default:
		fmt.Fprintln(s.out, "Recipient is offline!")
	}
}

// LineReader returns a readLine func over r. Trailing newlines are stripped; a
// final line without a newline is returned before io.EOF.
func LineReader(r io.Reader) func() (string, error) {
	br := bufio.NewReader(r)
	return func() (string, error) {
		line, err := br.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		return strings.TrimRight(line, "\r\n"), err
	}
}
