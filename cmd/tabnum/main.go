package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/c0ffee0wl/tabnum/internal/config"
	"github.com/c0ffee0wl/tabnum/internal/numberer"
	"github.com/c0ffee0wl/tabnum/internal/plugin"
	"github.com/c0ffee0wl/tabnum/internal/tmuxtabs"
	"github.com/c0ffee0wl/tabnum/internal/tui"
)

var opts struct {
	Tmux      bool   `long:"tmux" description:"number the windows of the surrounding tmux server instead of running the demo"`
	Once      bool   `long:"once" description:"with --tmux: apply numbering once, print the result, and exit"`
	Switch    int    `long:"switch" description:"with --tmux: focus the numbered window of the current session and exit (1-based)" value-name:"<n>"`
	Config    string `short:"c" long:"config" description:"config file path" value-name:"<file>"`
	LogFile   string `short:"l" long:"log-output-file" description:"write debug logs to this file (otherwise logs are dropped in demo mode)" value-name:"<file>"`
	LogPretty bool   `short:"p" long:"log-pretty" description:"prettify logs to file"`
	Verbose   bool   `short:"v" long:"verbose" description:"debug-level logging"`
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "fatal error (e.g. flag parsing):\n > %s\n", err.Error())
		os.Exit(1)
	}

	cfgPath := opts.Config
	if cfgPath == "" {
		cfgPath = config.Path()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg, !opts.Tmux)

	plugin.Register(numberer.New(log.Logger))

	if opts.Tmux {
		runTmux(cfg)
		return
	}
	runDemo(cfg)
}

// setupLogger configures the global zerolog logger. Under the demo TUI,
// stderr would corrupt the screen, so without a log file the logs are
// dropped.
func setupLogger(cfg config.Config, tuiMode bool) {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	logFile := opts.LogFile
	if logFile == "" {
		logFile = cfg.LogFile
	}

	var w io.Writer
	switch {
	case logFile != "":
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open %s for logging (%s)\n", logFile, err.Error())
			w = io.Discard
		} else if opts.LogPretty {
			w = zerolog.ConsoleWriter{Out: file}
		} else {
			w = file
		}
	case tuiMode:
		w = io.Discard
	default:
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func runDemo(cfg config.Config) {
	c := tui.NewContainer(cfg.InitialTabs(), log.Logger)
	host := tui.NewHost(c, log.Logger)

	for _, p := range plugin.All() {
		if err := p.Init(host); err != nil {
			fmt.Fprintf(os.Stderr, "Error: initializing %s: %v\n", p.Name(), err)
			os.Exit(1)
		}
		defer p.Unload()
	}

	prog := tea.NewProgram(tui.New(host), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTmux(cfg config.Config) {
	if !tmuxtabs.Available() {
		fmt.Fprintln(os.Stderr, "Error: not running inside tmux")
		os.Exit(1)
	}

	host := tmuxtabs.NewHost(cfg.Poll(), log.Logger)

	if opts.Switch > 0 {
		host.Tick()
		if err := switchTo(host, opts.Switch); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, p := range plugin.All() {
		if err := p.Init(host); err != nil {
			fmt.Fprintf(os.Stderr, "Error: initializing %s: %v\n", p.Name(), err)
			os.Exit(1)
		}
		defer p.Unload()
	}

	if opts.Once {
		host.Tick()
		fmt.Println(renderOnce(host.Containers(), stdoutWidth()))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info().Dur("interval", cfg.Poll()).Msg("numbering tmux windows; ctrl-c to stop")
	host.Run(ctx)
}

// switchTo focuses the n-th (1-based) window of the session this process
// runs in.
func switchTo(host *tmuxtabs.Host, n int) error {
	session, err := tmuxtabs.CurrentSession()
	if err != nil {
		return err
	}
	c := host.Container(session)
	if c == nil {
		return fmt.Errorf("session %q not found", session)
	}
	return c.SwitchTo(n - 1)
}

func stdoutWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return width
}

var (
	sessionStyle = lipgloss.NewStyle().Bold(true)
	sepStyle     = lipgloss.NewStyle().Faint(true)
)

// renderOnce produces a single snapshot of the numbered window titles for
// non-interactive output.
func renderOnce(containers []*tmuxtabs.Container, width int) string {
	var b strings.Builder
	for i, c := range containers {
		if i > 0 {
			b.WriteString("\n")
		}
		line := sessionStyle.Render(strings.TrimPrefix(c.ID(), "tmux:")) +
			sepStyle.Render(": ") +
			strings.Join(c.Titles(), sepStyle.Render(" │ "))
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
	}
	return b.String()
}
