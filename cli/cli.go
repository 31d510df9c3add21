// Package cli provides the line-based REPL front end.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fardog/advtxt/engine"
	"github.com/fardog/advtxt/types"
)

// CLI runs a single-player REPL against an engine.
type CLI struct {
	Engine *engine.Engine
	In     io.Reader
	Out    io.Writer
	// Player skips the username prompt when set.
	Player string
}

// New creates a CLI wired to the given engine on stdin/stdout.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run loops: prompt, read a line, submit it as a turn, print the
// replies. "/quit" exits.
func (c *CLI) Run() error {
	scanner := bufio.NewScanner(c.In)

	if c.Player == "" {
		fmt.Fprint(c.Out, "What is your username? ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		c.Player = strings.TrimSpace(scanner.Text())
		if c.Player == "" {
			return fmt.Errorf("cli: no username given")
		}
	}

	for {
		fmt.Fprint(c.Out, "> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			fmt.Fprintln(c.Out, "Goodbye.")
			return nil
		}

		c.Engine.Submit(&types.Command{
			Raw:        input,
			PlayerName: c.Player,
			Done: func(cmd *types.Command) {
				for _, reply := range cmd.Replies {
					fmt.Fprintln(c.Out, reply)
				}
			},
		})
	}
	return scanner.Err()
}
