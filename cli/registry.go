package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/voxelforge/voxelforge/vox/edit"
)

// ArgSpec documents one command argument for help output.
type ArgSpec struct {
	Name        string
	Description string
}

// Registration declares one command: its names, its arguments, and the
// handler that runs it. Handlers return a one-line message for the user.
type Registration struct {
	Name        string
	Description string
	Aliases     []string
	Args        []ArgSpec
	Handler     func(ctx *Context) (string, error)
}

// Context carries what a handler needs for one invocation.
type Context struct {
	Session *edit.Session
	Args    []string
	Out     io.Writer
}

// Registry resolves command names and aliases to registrations.
type Registry struct {
	byName map[string]*Registration
	order  []*Registration
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Registration)}
}

func (reg *Registry) Register(cmds ...Registration) *Registry {
	for i := range cmds {
		c := cmds[i]
		reg.order = append(reg.order, &c)
		reg.byName[c.Name] = &c
		for _, alias := range c.Aliases {
			reg.byName[alias] = &c
		}
	}
	return reg
}

// Execute runs one command line. The returned message is the single line
// shown to the user; a non-nil error maps to a non-zero exit status.
func (reg *Registry) Execute(session *edit.Session, out io.Writer, name string, args []string) (string, error) {
	cmd, ok := reg.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown command %q", ErrInvalidInput, name)
	}
	return cmd.Handler(&Context{Session: session, Args: args, Out: out})
}

// Help writes the command list with aliases and arguments.
func (reg *Registry) Help(w io.Writer) {
	cmds := append([]*Registration(nil), reg.order...)
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	for _, c := range cmds {
		name := c.Name
		if len(c.Aliases) > 0 {
			name += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		var args []string
		for _, a := range c.Args {
			args = append(args, "<"+a.Name+">")
		}
		fmt.Fprintf(w, "  %-28s %s %s\n", name, strings.Join(args, " "), c.Description)
	}
}
