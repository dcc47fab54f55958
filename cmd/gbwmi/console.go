package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// console runs commands read interactively until EOF or exit.
func console(c *commander) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gbwmi> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("Creating console failed: %w", err)
	}
	defer rl.Close()

	c.out = rl.Stdout()
	fmt.Fprint(c.out, commandHelp)
	fmt.Fprintln(c.out, "  exit                        leave the console")
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if cmd := strings.ToLower(args[0]); cmd == "exit" || cmd == "quit" {
			return nil
		}
		if err := c.exec(args); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}
