package cli

import (
	"fmt"
	"strings"

	"ctodo/internal/command"
	"ctodo/internal/config"
	"ctodo/internal/entry"
	"ctodo/internal/render"
	"ctodo/internal/storage"
	"ctodo/internal/store"
	"ctodo/internal/ui"
)

// execute runs one command: load, apply, then render or save. A nil cmd
// with interactive set means the add form supplies the command.
func (a *app) execute(cmd command.Command, interactive bool) error {
	home, err := a.env.HomeDir()
	if err != nil {
		return fmt.Errorf("%w: resolve home directory: %v", storage.ErrIOUnavailable, err)
	}
	cfgPath := a.opts.configPath
	if cfgPath == "" {
		cfgPath = config.ResolveConfigPath(home)
	}
	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := a.newLogger(cfg)
	logger.Debug("config loaded", "path", cfgPath, "backend", cfg.Backend)

	rend, err := a.newRenderer(cfg)
	if err != nil {
		return err
	}

	backend, err := storage.Open(cfg.Backend, home)
	if err != nil {
		return err
	}
	defer backend.Close()

	if _, ok := cmd.(command.Init); ok {
		if err := backend.Init(); err != nil {
			return err
		}
		fmt.Fprintf(a.env.Stdout, "Initialized %s\n", backend.Path())
		return nil
	}

	entries, err := backend.Load(cfg.FoldGroupCase)
	if err != nil {
		return err
	}
	logger.Debug("store loaded", "path", backend.Path(), "entries", len(entries))
	st := store.New(entries)
	now := a.env.Now().Unix()

	parseDue := func(text string) (int64, error) {
		return entry.ParseDue(text, cfg.Offset())
	}

	if interactive {
		var proceed bool
		cmd, proceed, err = a.prompt(cmd, st, rend, now, parseDue)
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Fprintln(a.env.Stdout, "Cancelled")
			return nil
		}
	}

	res, err := command.Apply(cmd, st, parseDue)
	if err != nil {
		return err
	}
	logger.Debug("command applied", "command", fmt.Sprintf("%T", cmd), "save", res.Save)

	switch c := cmd.(type) {
	case command.List:
		if c.Sorted {
			return rend.SortedListing(a.env.Stdout, st, now)
		}
		return rend.GroupListing(a.env.Stdout, st, now)
	case command.Delete:
		line, err := rend.FormatEntry(res.Entry, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.env.Stdout, "Deleting entry: %s", line)
	}

	if !res.Save {
		return nil
	}
	if err := backend.Save(st.Entries()); err != nil {
		return err
	}
	logger.Debug("store saved", "path", backend.Path(), "entries", st.Len())
	return nil
}

// prompt asks the user to fill in or confirm cmd. It reports false when the
// user backs out.
func (a *app) prompt(cmd command.Command, st *store.Store, rend *render.Renderer, now int64, parseDue store.DueParser) (command.Command, bool, error) {
	switch c := cmd.(type) {
	case nil:
		check := func(field, value string) error {
			if field == "date" {
				_, err := parseDue(value)
				return err
			}
			if field == "desc" {
				field = "description"
			}
			return entry.ValidateText(field, value)
		}
		add, ok, err := ui.RunAddForm(a.env.Stdin, a.env.Stdout, check)
		return add, ok, err
	case command.Delete:
		e, err := st.Get(c.ID)
		if err != nil {
			return nil, false, err
		}
		line, err := rend.FormatEntry(e, now)
		if err != nil {
			return nil, false, err
		}
		yes, err := ui.RunConfirm(a.env.Stdin, a.env.Stdout, "Delete "+strings.TrimSuffix(line, "\n")+"?")
		return cmd, yes, err
	case command.Reindex:
		prompt := fmt.Sprintf("Renumber all %d entries from 0? This cannot be undone.", st.Len())
		yes, err := ui.RunConfirm(a.env.Stdin, a.env.Stdout, prompt)
		return cmd, yes, err
	default:
		return cmd, true, nil
	}
}
