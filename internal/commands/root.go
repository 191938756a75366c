package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sokawa/dayboard/internal/calendar"
	"github.com/sokawa/dayboard/internal/config"
	"github.com/sokawa/dayboard/internal/identity"
	"github.com/sokawa/dayboard/internal/logging"
	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/remote"
	"github.com/sokawa/dayboard/internal/store"
	"github.com/sokawa/dayboard/internal/timer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "dayboard",
	Short: "A CLI day planner and time tracker",
	Long: `dayboard is a command-line tool for planning a single day: tasks with
time slots, a running timer, merged calendar events, bulk import from
pasted notes, and drafted daily reports.`,
}

// app bundles the wired runtime services a command needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *remote.DB
	session *identity.Session
	store   *store.Store
	engine  *timer.Engine
}

// newApp wires config, logging, the task store and the timer engine. It
// loads the store so commands start from the persisted task list.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	db, err := remote.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	provider := identity.NewStatic(cfg.Principal.ID, cfg.Principal.Name, cfg.Principal.Email)
	session, err := provider.Session(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := store.New(db, session.PrincipalID, log)
	if err := s.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		session: session,
		store:   s,
		engine:  timer.New(s, nil, log),
	}, nil
}

// Close flushes any pending elapsed-time write and releases the database.
func (a *app) Close() {
	a.store.FlushElapsed()
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

// syncer builds the calendar syncer, or nil when no calendar is configured.
func (a *app) syncer(ctx context.Context) (*calendar.Syncer, error) {
	if a.cfg.Calendar.CredentialsFile == "" {
		return nil, nil
	}

	client, err := calendar.AuthClient(ctx, a.cfg.Calendar.CredentialsFile, a.cfg.Calendar.TokenFile)
	if err != nil {
		return nil, err
	}

	source, err := calendar.NewGoogleSource(ctx, client, a.cfg.Calendar.CalendarID)
	if err != nil {
		return nil, err
	}

	return calendar.NewSyncer(source, a.store, a.log), nil
}

// resolveTask finds a task by unique ID prefix, falling back to an exact
// title match on the given date.
func (a *app) resolveTask(ref, dateStr string) (models.Task, error) {
	var matches []models.Task
	for _, task := range a.store.Tasks() {
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		for _, task := range a.store.TasksForDate(dateStr) {
			if task.Title == ref {
				return task, nil
			}
		}
		return models.Task{}, fmt.Errorf("no task matches '%s'", ref)
	default:
		return models.Task{}, fmt.Errorf("'%s' matches %d tasks, use a longer prefix", ref, len(matches))
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.dayboard/config.yaml)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(versionCmd)
}
