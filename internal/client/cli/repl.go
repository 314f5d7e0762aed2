package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/nutrigate/internal/client/gate"
)

type command struct {
	name string
	run  func(a *App, ctx context.Context) error
}

func goTo(screen gate.Screen) func(*App, context.Context) error {
	return func(a *App, ctx context.Context) error {
		return a.focus(ctx, screen)
	}
}

// commandsFor lists the commands of screen in menu order.
func commandsFor(screen gate.Screen) []command {
	switch screen {
	case gate.ScreenLogin:
		return []command{
			{"submit", (*App).submitLogin},
			{"signup", goTo(gate.ScreenSignup)},
			{"forgot", goTo(gate.ScreenForgotPassword)},
		}
	case gate.ScreenSignup:
		return []command{
			{"submit", (*App).submitSignup},
			{"login", goTo(gate.ScreenLogin)},
		}
	case gate.ScreenForgotPassword:
		return []command{
			{"submit", (*App).submitForgot},
			{"confirm", (*App).confirmReset},
			{"login", goTo(gate.ScreenLogin)},
		}
	case gate.ScreenOnboarding:
		return []command{
			{"submit", (*App).submitOnboarding},
			{"logout", (*App).logout},
		}
	case gate.ScreenHome:
		return []command{
			{"capture", (*App).capture},
			{"upload", (*App).upload},
			{"profile", goTo(gate.ScreenProfile)},
		}
	case gate.ScreenProfile:
		return []command{
			{"home", goTo(gate.ScreenHome)},
			{"logout", (*App).logout},
		}
	}
	return nil
}

var globalCommands = []string{"help", "open", "refresh", "exit"}

func (a *App) commandNames(screen gate.Screen) []string {
	cmds := commandsFor(screen)
	names := make([]string, 0, len(cmds)+len(globalCommands))
	for _, c := range cmds {
		names = append(names, c.name)
	}
	return append(names, globalCommands...)
}

func lookupCommand(screen gate.Screen, name string) (command, bool) {
	for _, c := range commandsFor(screen) {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// execIface is the command surface the REPL needs. The real App satisfies
// it; tests can provide a lightweight stub.
type execIface interface {
	statusLine() string
	execute(ctx context.Context, line string) (quit bool)
}

func (a *App) statusLine() string {
	s := "[" + string(a.current()) + "]"
	if m := a.Mode(); m != "" {
		s += " (" + string(m) + ")"
	}
	return s
}

// execute runs one input line on the focused screen. Command failures have
// already been shown to the user and are only logged here.
func (a *App) execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "help":
		a.println("Available commands: " + strings.Join(a.commandNames(a.current()), ", "))
	case "open":
		// the gate still decides where the user lands
		if len(parts) < 2 {
			a.println("Usage: open <screen>")
			return false
		}
		screen, err := gate.ParseScreen(strings.ToLower(parts[1]))
		if err != nil {
			a.println("Unknown screen:", parts[1])
			return false
		}
		if err := a.focus(ctx, screen); err != nil {
			a.logger.Error(ctx, "open failed", "screen", screen, "error", err)
		}
	case "refresh":
		if err := a.focus(ctx, a.current()); err != nil {
			a.logger.Error(ctx, "refresh failed", "error", err)
		}
	case "exit", "quit":
		a.println("Bye!")
		return true
	default:
		c, ok := lookupCommand(a.current(), cmd)
		if !ok {
			a.println("Unknown command:", cmd)
			return false
		}
		if err := c.run(a, ctx); err != nil {
			a.logger.Debug(ctx, "command failed", "command", cmd, "error", err)
		}
	}
	return false
}

// runREPL reads commands from reader until EOF, "exit"/"quit" or ctx is
// done. The prompt shows the focused screen and connectivity mode.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(w, "nutrigate %s> ", a.statusLine())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		if a.execute(ctx, line) {
			return
		}
	}
}
