package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks       service.TaskService
	Subtasks    service.SubtaskService
	Roster      service.RosterService
	Submissions service.SubmissionService
	Progress    service.ProgressService
	Feedback    service.FeedbackService

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// PromptBody asks for a feedback body. Nil uses the huh text form.
	PromptBody func(title string) (string, error)
	// Now is the clock used for relative timestamps. Nil means time.Now.
	Now func() time.Time

	actorID string
	role    domain.Role
}

// NewRootCmd creates the top-level "quorum" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "quorum",
		Short:         "Tiered approvals, quotas and feedback for delegated work",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.actorID = os.Getenv("QUORUM_ACTOR")
	if r, err := domain.ParseRole(os.Getenv("QUORUM_ROLE")); err == nil {
		app.role = r
	}
	root.PersistentFlags().StringVar(&app.actorID, "actor", app.actorID, "Acting user id (env QUORUM_ACTOR)")
	root.PersistentFlags().Var(roleValue{&app.role}, "role", "Acting user role: admin, manager, team_lead, employee (env QUORUM_ROLE)")

	root.AddCommand(
		newTaskCmd(app),
		newSubtaskCmd(app),
		newRosterCmd(app),
		newSubmissionCmd(app),
		newFeedbackCmd(app),
	)

	return root
}

// actor returns the identity given by --actor/--role.
func (a *App) actor() (domain.Actor, error) {
	act := domain.Actor{ID: strings.TrimSpace(a.actorID), Role: a.role}
	if err := act.Validate(); err != nil {
		return domain.Actor{}, fmt.Errorf("%w (set --actor and --role)", err)
	}
	return act, nil
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func printOut(cmd *cobra.Command, s string) {
	out := cmd.OutOrStdout()
	io.WriteString(out, s)
	if !strings.HasSuffix(s, "\n") {
		io.WriteString(out, "\n")
	}
}

// resolveByPrefix matches an exact id first and then a unique id prefix.
func resolveByPrefix(entity, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", entity)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", &domain.NotFoundError{Entity: entity, ID: input}
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", entity, input, len(matches))
	}
}

func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	tasks, err := app.Tasks.List(ctx, true)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveByPrefix("task", input, ids)
}

func resolveSubtaskID(ctx context.Context, app *App, input string) (string, error) {
	if st, err := app.Subtasks.GetByID(ctx, input); err == nil {
		return st.ID, nil
	}
	tasks, err := app.Tasks.List(ctx, true)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, t := range tasks {
		subs, err := app.Subtasks.ListByTask(ctx, t.ID)
		if err != nil {
			return "", err
		}
		for _, st := range subs {
			ids = append(ids, st.ID)
		}
	}
	return resolveByPrefix("subtask", input, ids)
}

// resolveWorkItemID accepts a subtask or task id (or unique prefix).
func resolveWorkItemID(ctx context.Context, app *App, input string) (string, error) {
	id, err := resolveSubtaskID(ctx, app, input)
	if err == nil {
		return id, nil
	}
	if !domainNotFound(err) {
		return "", err
	}
	id, err = resolveTaskID(ctx, app, input)
	if err != nil && domainNotFound(err) {
		return "", &domain.NotFoundError{Entity: "work item", ID: input}
	}
	return id, err
}

func domainNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
