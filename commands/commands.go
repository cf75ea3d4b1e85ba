package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

type Command func(ctx context.Context) error

// Commands maps editor command names to their implementation. Key bindings
// refer to commands by name so the router does not need to know about the
// store or the title policy.
type Commands struct {
	log      *log.Logger
	commands map[string]Command
}

func NewCommands(log *log.Logger) *Commands {
	return &Commands{log: log, commands: make(map[string]Command)}
}

// Exec runs the command whose name starts with command, preferring the
// longest name when several match.
func (c *Commands) Exec(ctx context.Context, command string) error {
	cmd := c.findCommandByLongestPrefix(command)
	if cmd == nil {
		c.log.Printf("Command %s not found", command)
		return fmt.Errorf("%s: %w", command, ErrUnknownCommand)
	}
	c.log.Printf("Executing command %s", command)
	return cmd(ctx)
}

func (c *Commands) findCommandByLongestPrefix(commandPrefix string) Command {
	if commandPrefix == "" {
		return nil
	}
	if cmd, ok := c.commands[commandPrefix]; ok {
		return cmd
	}
	longest := -1
	var longestCmd Command
	for _, name := range c.Names() {
		if strings.HasPrefix(name, commandPrefix) && len(name) > longest {
			longest = len(name)
			longestCmd = c.commands[name]
		}
	}
	return longestCmd
}

func (c *Commands) Register(name string, command Command) {
	c.commands[name] = command
}

func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
