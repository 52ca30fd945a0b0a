package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/roadmap/internal/cli"
	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/db"
	"github.com/alexanderramin/roadmap/internal/repository"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	// Open the preferences database
	database, err := db.OpenDB(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	docRepo := repository.NewMarkdownFileRepo(env.DocumentPath)
	settingsRepo := repository.NewYAMLSettingsRepo(env.SettingsPath)
	prefRepo := repository.NewSQLitePreferenceRepo(database)
	saveLogRepo := repository.NewSQLiteSaveLogRepo(database)

	var observers []service.UseCaseObserver
	if env.Log {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	prefs := service.NewPreferenceService(prefRepo, db.NewSQLiteUnitOfWork(database), observers...)

	opts := []service.RoadmapOption{service.WithSaveLog(saveLogRepo), service.WithPreferences(prefs)}
	for _, o := range observers {
		opts = append(opts, service.WithObserver(o))
	}
	roadmap := service.NewRoadmapService(docRepo, settingsRepo, opts...)
	defer closeRoadmap(roadmap, &err)

	app := &cli.App{
		Roadmap: roadmap,
		Prefs:   prefs,
		Addr:    env.Addr,
	}

	// Prompts and the board need a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}

// closeRoadmap writes any pending edit. A failed final write is reported
// unless the command already failed.
func closeRoadmap(roadmap service.RoadmapService, err *error) {
	if cerr := roadmap.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("writing roadmap on exit: %w", cerr)
	}
}
