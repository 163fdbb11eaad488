// Package commands implements the editor console: a registry of named commands, each
// with its own flag set, and the scene editing commands built on it.
package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"
)

// ErrUsage marks a command invoked with the wrong arguments.
var ErrUsage = errors.New("usage")

// Command is a console command. Flags are parsed before Run, which receives the
// remaining positional arguments.
type Command struct {
	Name  string
	Usage string
	Flags *pflag.FlagSet
	Run   func(args []string) error
}

// Registry holds commands by name.
type Registry struct {
	// Out receives command output and flag errors. Nil discards.
	Out  io.Writer
	cmds map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a command. fs may be nil for commands without flags.
func (r *Registry) Register(name, usage string, fs *pflag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = pflag.NewFlagSet(name, pflag.ContinueOnError)
	}
	r.cmds[name] = &Command{Name: name, Usage: usage, Flags: fs, Run: run}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the command called name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Parse splits a console line into words. Quotes group words: text "Hello world".
func Parse(line string) ([]string, error) {
	args, err := shellwords.Parse(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("commands: %w", err)
	}
	return args, nil
}

// Run parses and executes one console line. Blank lines do nothing.
func (r *Registry) Run(line string) error {
	args, err := Parse(line)
	if err != nil || len(args) == 0 {
		return err
	}
	return r.Execute(args)
}

// Execute runs the command named by args[0] with the rest as flags and arguments.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("commands: missing command")
	}
	cmd, ok := r.cmds[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("commands: unknown command %q", args[0])
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	cmd.Flags.SetOutput(out)
	// Flag sets live across invocations; start every run from the defaults.
	cmd.Flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	if err := cmd.Flags.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	err := cmd.Run(cmd.Flags.Args())
	if errors.Is(err, ErrUsage) {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
	}
	return err
}

// Printf writes formatted output to Out.
func (r *Registry) Printf(format string, args ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}
