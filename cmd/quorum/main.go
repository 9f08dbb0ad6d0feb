package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/quorum/internal/cli"
	"github.com/alexanderramin/quorum/internal/config"
	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/notify"
	"github.com/alexanderramin/quorum/internal/repository"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// quorum.yaml, then .env, then QUORUM_* variables
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	taskRepo := repository.NewSQLiteTaskRepo(database)
	subtaskRepo := repository.NewSQLiteSubtaskRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	rosterEventRepo := repository.NewSQLiteRosterEventRepo(database)
	submissionRepo := repository.NewSQLiteSubmissionRepo(database)
	transitionRepo := repository.NewSQLiteTransitionRepo(database)
	feedbackRepo := repository.NewSQLiteFeedbackRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	dispatcher, closeDispatcher := newDispatcher(cfg, logger)
	defer closeDispatcher()

	opts := []service.Option{
		service.WithDispatcher(dispatcher),
		service.WithLogger(logger),
		service.WithDefaultRequiredApprovals(cfg.DefaultRequiredApprovals),
	}
	if cfg.LogUseCases {
		opts = append(opts, service.WithObserver(service.NewSlogUseCaseObserver(logger)))
	}

	app := &cli.App{
		Tasks:       service.NewTaskService(taskRepo, uow, opts...),
		Subtasks:    service.NewSubtaskService(subtaskRepo, uow, opts...),
		Roster:      service.NewRosterService(subtaskRepo, assignmentRepo, rosterEventRepo, uow, opts...),
		Submissions: service.NewSubmissionService(submissionRepo, transitionRepo, uow, opts...),
		Progress:    service.NewProgressService(taskRepo, subtaskRepo, submissionRepo),
		Feedback:    service.NewFeedbackService(taskRepo, subtaskRepo, feedbackRepo, uow, opts...),
	}

	// Detect interactive terminal for the feedback prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// newDispatcher builds the notification sink selected by notify.sink.
// The returned func releases any client it opened.
func newDispatcher(cfg config.Config, logger *slog.Logger) (notify.Dispatcher, func()) {
	switch cfg.Notify.Sink {
	case config.SinkNone:
		return notify.Noop{}, func() {}
	case config.SinkRedis:
		r := cfg.Notify.Redis
		client := notify.NewRedisClient(r.Addr, r.Password, r.DB)
		d := notify.NewFanout(
			notify.NewLogDispatcher(logger),
			notify.NewRedisPublisher(client, r.Channel),
		)
		return d, func() { _ = client.Close() }
	default:
		return notify.NewLogDispatcher(logger), func() {}
	}
}
