package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/treelab/arbor/internal/store"
	"github.com/treelab/arbor/pkg/config"
	"github.com/treelab/arbor/pkg/debug"
	"github.com/treelab/arbor/pkg/export"
	"github.com/treelab/arbor/pkg/ui"
	"github.com/treelab/arbor/pkg/version"
	"github.com/treelab/arbor/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

func main() {
	filePath := flag.String("file", "", "Tree file (.json autosave or .db SQLite). Defaults to the XDG data path")
	exportPath := flag.String("export", "", "Export a snapshot to the given path (svg/png) and exit")
	exportTitle := flag.String("title", "Family Tree", "Snapshot title (with --export)")
	wizardFlag := flag.Bool("wizard", false, "Interactive export wizard")
	layoutFlag := flag.Bool("layout", false, "Run auto layout on the tree and exit")
	debugFlag := flag.Bool("debug", false, "Enable debug logging to stderr")
	versionFlag := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Println("arbor - interactive family tree canvas")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("arbor %s\n", version.Version)
		os.Exit(0)
	}

	if *debugFlag {
		debug.SetEnabled(true)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	dataPath := *filePath
	if dataPath == "" {
		dataPath = cfg.DataPath
	}
	if dataPath == "" {
		dataPath = config.DefaultDataPath()
	}

	st, err := openStore(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", dataPath, err)
		os.Exit(1)
	}
	defer st.Close()

	// Headless modes run against the store and exit.
	if *layoutFlag {
		if err := runLayout(st, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Layout applied.")
		os.Exit(0)
	}
	if *exportPath != "" || *wizardFlag {
		if err := runExport(st, cfg, *exportPath, *exportTitle, *wizardFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: arbor requires a terminal (use --export for headless snapshots)")
		os.Exit(1)
	}

	// Only the JSON autosave can change under us; SQLite holds its own lock.
	var w *watcher.Watcher
	if !isSQLitePath(dataPath) {
		w, err = watcher.New(dataPath, watcher.WithOnError(func(werr error) {
			debug.Log("watcher error: %v", werr)
		}))
		if err == nil {
			if err := w.Start(); err != nil {
				debug.Log("watcher start failed: %v", err)
				w = nil
			}
		} else {
			debug.Log("watcher setup failed: %v", err)
		}
	}
	if w != nil {
		defer w.Stop()
	}

	m := ui.NewModel(st, cfg, w)
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running arbor: %v\n", err)
		os.Exit(1)
	}
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func openStore(path string) (store.Store, error) {
	if isSQLitePath(path) {
		return store.OpenSQLite(path)
	}
	return store.NewMemoryStore(path)
}

func runLayout(st store.Store, cfg config.Config) error {
	opts := store.LayoutOptions{
		Direction: store.Direction(cfg.Layout.Direction),
		SpacingX:  cfg.Layout.SpacingX,
		SpacingY:  cfg.Layout.SpacingY,
	}
	return st.AutoLayout(opts)
}

// newForm creates a huh form, accessible when stdin is not a terminal.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

func runExport(st store.Store, cfg config.Config, path, title string, wizard bool) error {
	if wizard {
		format := "svg"
		if path == "" {
			path = filepath.Join(config.DataDir(), "arbor-snapshot.svg")
		}
		form := newForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Output path").
					Value(&path),
				huh.NewSelect[string]().
					Title("Format").
					Options(
						huh.NewOption("SVG (vector)", "svg"),
						huh.NewOption("PNG (raster)", "png"),
					).
					Value(&format),
				huh.NewInput().
					Title("Snapshot title").
					Value(&title),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); !strings.EqualFold(ext, format) {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
		}
	}

	res, err := st.FetchTree()
	if err != nil {
		return err
	}
	if err := export.SaveSnapshot(export.SnapshotOptions{
		Path:       path,
		Title:      title,
		Tree:       res.Tree,
		NodeWidth:  cfg.Geometry.NodeWidth,
		NodeHeight: cfg.Geometry.NodeHeight,
	}); err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s\n", path)
	return nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set ARBOR_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("ARBOR_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	close(runDone)
	return err
}
