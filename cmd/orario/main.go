package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/BrrBrr1/UniboOrario/internal/config"
	"github.com/BrrBrr1/UniboOrario/internal/course"
	"github.com/BrrBrr1/UniboOrario/internal/debuglog"
	"github.com/BrrBrr1/UniboOrario/internal/notes"
	"github.com/BrrBrr1/UniboOrario/internal/search"
	"github.com/BrrBrr1/UniboOrario/internal/session"
	"github.com/BrrBrr1/UniboOrario/internal/storage"
	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

// Version is set at build time.
var Version = "dev"

var (
	flagConfig   string
	flagDB       string
	flagLogLevel string
	flagQuiet    bool
)

// app bundles the wired-up core components behind the CLI commands.
type app struct {
	cfg        *config.Config
	store      *storage.Store
	fetcher    *timetable.Fetcher
	registry   *course.Registry
	controller *session.Controller
	notes      *notes.Service
	searchIdx  *search.BleveEngine
}

func openApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}

	if err := debuglog.Setup(debuglog.ParseLevel(flagLogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	fetcher := timetable.NewFetcher(store, cfg)

	extra, err := course.LoadCatalogFile(cfg.Courses.CatalogFile)
	if err != nil {
		debuglog.Warnf("ignoring course catalog file: %v", err)
	}
	registry := course.NewRegistry(store, fetcher, extra)

	return &app{
		cfg:        cfg,
		store:      store,
		fetcher:    fetcher,
		registry:   registry,
		controller: session.NewController(store, fetcher, registry),
		notes:      notes.NewService(store),
	}, nil
}

func (a *app) close() {
	if a.searchIdx != nil {
		a.searchIdx.Close()
	}
	a.store.Close()
	debuglog.Close()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "orario",
		Short: "Unibo course timetable in your terminal",
		Long: "orario fetches university timetables, keeps an offline cache,\n" +
			"and remembers which lessons you follow per course and year.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "off", "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "skip banner")

	rootCmd.AddCommand(
		newWeekCmd(),
		newLessonsCmd(),
		newSelectCmd(),
		newCoursesCmd(),
		newNotesCmd(),
		newSearchCmd(),
		newExportCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("orario %s\n", Version)
			fmt.Println("github.com/BrrBrr1/UniboOrario")
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := os.UserHomeDir()
			configFile := filepath.Join(home, ".config", "orario", "config.toml")
			if err := config.GenerateDefaultConfig(configFile); err != nil {
				return fmt.Errorf("generating config: %w", err)
			}
			fmt.Printf("Generated default configuration at: %s\n", configFile)
			return nil
		},
	})
	return cmd
}

func banner() {
	if flagQuiet {
		return
	}
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ECDC4")).
		Bold(true).
		Render("orario")
	sub := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#94A3B8")).
		Render(" · orari delle lezioni Unibo")
	fmt.Println(title + sub)
}
