package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"ctodo/internal/command"
	"ctodo/internal/config"
	"ctodo/internal/entry"
	"ctodo/internal/render"
	"ctodo/internal/storage"
	"ctodo/internal/store"
)

// Exit codes
const (
	ExitOK            = 0
	ExitUsage         = 2
	ExitUnavailable   = 3
	ExitMalformed     = 4
	ExitBadDate       = 5
	ExitNotFound      = 6
	ExitConfiguration = 7
	ExitInternal      = 10
)

var errUsage = errors.New("usage")

// Env carries everything ctodo takes from the outside world.
type Env struct {
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	HomeDir func() (string, error)
	Now     func() time.Time
}

// DefaultEnv wires Env to the running process.
func DefaultEnv() Env {
	return Env{
		Args:    os.Args[1:],
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		HomeDir: os.UserHomeDir,
		Now:     time.Now,
	}
}

type options struct {
	configPath string
	color      string
	verbose    bool
}

type app struct {
	env  Env
	opts options
}

// Run executes one invocation and returns its exit code.
func Run(env Env) int {
	a := &app{env: env}
	root := a.rootCommand()
	root.SetArgs(env.Args)
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	if !errors.Is(err, errUsage) {
		fmt.Fprintf(env.Stderr, "ctodo: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage), errors.Is(err, command.ErrInvalidArgument), errors.Is(err, entry.ErrUnencodable):
		return ExitUsage
	case errors.Is(err, storage.ErrIOUnavailable):
		return ExitUnavailable
	case errors.Is(err, entry.ErrMalformedRecord):
		return ExitMalformed
	case errors.Is(err, entry.ErrInvalidDateFormat):
		return ExitBadDate
	case errors.Is(err, store.ErrEntryNotFound):
		return ExitNotFound
	case errors.Is(err, render.ErrBadTemplate), errors.Is(err, config.ErrInvalidConfig):
		return ExitConfiguration
	default:
		return ExitInternal
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ctodo <command> [args]",
		Short: "ctodo keeps a dated todo list in ~/" + storage.DefaultTextFileName,
		Long: `ctodo keeps a dated todo list in ~/` + storage.DefaultTextFileName + `.

Dates are written as month/day/year hour:minute am|pm, e.g. "9/21/2021 11:59 pm".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Unknown command: %s\n\n", args[0])
			}
			cmd.Usage()
			return errUsage
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", command.ErrInvalidArgument, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ctodo/config.toml)")
	pf.StringVar(&a.opts.color, "color", "auto", "color output: auto, always or never")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		a.listCommand(),
		a.addCommand(),
		a.modCommand(),
		a.delCommand(),
		a.reindexCommand(),
		a.initCommand(),
	)
	return root
}

func (a *app) listCommand() *cobra.Command {
	var sorted bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show entries by group, or by due date with -s",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(command.List{Sorted: sorted}, false)
		},
	}
	cmd.Flags().BoolVarP(&sorted, "sort", "s", false, "sort by due date instead of grouping")
	return cmd
}

func (a *app) addCommand() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "add <group> <due date> <description>",
		Short: "Add an entry",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if len(args) != 0 {
					return fmt.Errorf("%w: add -i takes no arguments", command.ErrInvalidArgument)
				}
				return a.execute(nil, true)
			}
			add, err := command.NewAdd(args)
			if err != nil {
				return err
			}
			return a.execute(add, false)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for each field")
	return cmd
}

func (a *app) modCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mod <id> <field=value>...",
		Short: "Change fields of an entry (group, date, desc)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := command.NewModify(args)
			if err != nil {
				return err
			}
			return a.execute(mod, false)
		},
	}
}

func (a *app) delCommand() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:     "del <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			del, err := command.NewDelete(args)
			if err != nil {
				return err
			}
			return a.execute(del, interactive)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "ask before deleting")
	return cmd
}

func (a *app) reindexCommand() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Renumber all entries from 0",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(command.Reindex{}, interactive)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "ask before renumbering")
	return cmd
}

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty todo file if there is none",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(command.Init{}, false)
		},
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s takes no arguments", command.ErrInvalidArgument, cmd.Name())
	}
	return nil
}

func (a *app) newLogger(cfg config.Config) *log.Logger {
	level := cfg.Level()
	if a.opts.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.env.Stderr, log.Options{
		Prefix: "ctodo",
		Level:  level,
	})
}

func (a *app) newRenderer(cfg config.Config) (*render.Renderer, error) {
	lg := lipgloss.NewRenderer(a.env.Stdout)
	switch a.opts.color {
	case "auto", "":
	case "always":
		lg.SetColorProfile(termenv.TrueColor)
	case "never":
		lg.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("%w: --color must be auto, always or never", command.ErrInvalidArgument)
	}
	return render.New(cfg.RenderOptions(), lg), nil
}
