// ABOUTME: Shared state for CLI commands: record service, persistence bridge and I/O
// ABOUTME: Includes flag helpers and the interactive confirmation prompt
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/persist"
)

// Syncer is implemented by backends that can push and pull remote changes.
type Syncer interface {
	Sync() error
}

// App carries what every command needs.
type App struct {
	Svc    *crm.Service
	Bridge *persist.Bridge
	Out    io.Writer
	In     io.Reader

	// Confirm asks a yes/no question. Defaults to a terminal prompt.
	Confirm func(prompt string) (bool, error)

	// Syncer is set when the storage backend supports remote sync.
	Syncer Syncer
	// SyncHost and AutoSync describe the remote for sync status.
	SyncHost string
	AutoSync bool
}

// NewApp wires an App to stdin and stdout.
func NewApp(svc *crm.Service, bridge *persist.Bridge) *App {
	a := &App{Svc: svc, Bridge: bridge, Out: os.Stdout, In: os.Stdin}
	a.Confirm = a.terminalConfirm
	return a
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.Out, args...)
}

// flagSet returns a flag set that reports errors instead of exiting.
func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Out)
	return fs
}

// terminalConfirm prompts on a terminal and refuses otherwise.
func (a *App) terminalConfirm(prompt string) (bool, error) {
	f, ok := a.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, fmt.Errorf("refusing to continue without a terminal; pass --confirm")
	}
	a.printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// visited returns the names of flags given on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// requireID returns the first positional argument.
func requireID(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("%s ID is required", what)
	}
	return fs.Arg(0), nil
}

// parseDate accepts YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC 3339.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
}

func parseFloatPtr(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &v, nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
