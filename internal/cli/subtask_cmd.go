package cli

import (
	"fmt"

	"github.com/alexanderramin/quorum/internal/cli/formatter"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/spf13/cobra"
)

func newSubtaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks delegated to team leads",
	}

	cmd.AddCommand(
		newSubtaskCreateCmd(app),
		newSubtaskListCmd(app),
		newSubtaskShowCmd(app),
		newSubtaskProgressCmd(app),
		newSubtaskCancelCmd(app),
	)

	return cmd
}

func newSubtaskCreateCmd(app *App) *cobra.Command {
	var (
		taskRef string
		due     string
		in      service.CreateSubtaskInput
	)
	in.Priority = domain.PriorityMedium

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a subtask under a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			in.Actor = actor

			if in.TaskID, err = resolveTaskID(cmd.Context(), app, taskRef); err != nil {
				return err
			}
			if in.DueDate, err = parseOptionalDate(due); err != nil {
				return err
			}

			st, err := app.Subtasks.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			p, err := app.Progress.Progress(cmd.Context(), st.ID)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSubtask(st, p, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&taskRef, "task", "", "Parent task id or prefix")
	cmd.Flags().StringVar(&in.TeamLeadID, "lead", "", "Owning team lead id")
	cmd.Flags().StringVar(&in.Title, "title", "", "Subtask title")
	cmd.Flags().IntVar(&in.RequiredApprovals, "approvals", 0, "Required approvals (0 uses the configured default)")
	cmd.Flags().Var(priorityValue{&in.Priority}, "priority", "Priority: low, medium, high")
	cmd.Flags().BoolVar(&in.RequiresManagerReview, "manager-review", false, "Submissions also need Manager approval")
	cmd.Flags().BoolVar(&in.RequiresAdminReview, "admin-review", false, "Submissions also need Admin approval")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("lead")

	return cmd
}

func newSubtaskListCmd(app *App) *cobra.Command {
	var taskRef, lead string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subtasks of a task or owned by a team lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				subs []*domain.Subtask
				err  error
			)
			switch {
			case taskRef != "":
				var taskID string
				if taskID, err = resolveTaskID(cmd.Context(), app, taskRef); err != nil {
					return err
				}
				subs, err = app.Subtasks.ListByTask(cmd.Context(), taskID)
			case lead != "":
				if subs, err = app.Subtasks.ListByTeamLead(cmd.Context(), lead); err == nil {
					domain.SortWorkQueue(subs)
				}
			default:
				return fmt.Errorf("one of --task or --lead is required")
			}
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSubtaskList(subs, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&taskRef, "task", "", "Task id or prefix")
	cmd.Flags().StringVar(&lead, "lead", "", "Team lead id; lists their work queue, most urgent first")
	cmd.MarkFlagsMutuallyExclusive("task", "lead")
	return cmd
}

func showSubtask(cmd *cobra.Command, app *App, ref string) error {
	id, err := resolveSubtaskID(cmd.Context(), app, ref)
	if err != nil {
		return err
	}
	st, err := app.Subtasks.GetByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	p, err := app.Progress.Progress(cmd.Context(), id)
	if err != nil {
		return err
	}
	printOut(cmd, formatter.FormatSubtask(st, p, app.now()))
	return nil
}

func newSubtaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <subtask-id>",
		Short: "Show a subtask with its approval chain and quota",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSubtask(cmd, app, args[0])
		},
	}
}

func newSubtaskProgressCmd(app *App) *cobra.Command {
	var employee string

	cmd := &cobra.Command{
		Use:   "progress <subtask-id>",
		Short: "Show quota progress and whether submissions are still accepted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSubtaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Progress.Progress(cmd.Context(), id)
			if err != nil {
				return err
			}
			ok, err := app.Progress.CanSubmit(cmd.Context(), id, employee)
			if err != nil {
				return err
			}
			status := formatter.StyleGreen.Render("accepting submissions")
			if !ok {
				status = formatter.Dim("closed: quota met")
			}
			printOut(cmd, formatter.RenderQuota(p, 20)+"\n"+status)
			return nil
		},
	}

	cmd.Flags().StringVar(&employee, "employee", "", "Employee id to check")
	return cmd
}

func newSubtaskCancelCmd(app *App) *cobra.Command {
	var in service.CancelSubtaskInput

	cmd := &cobra.Command{
		Use:   "cancel <subtask-id>",
		Short: "Cancel a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			in.Actor = actor
			if in.SubtaskID, err = resolveSubtaskID(cmd.Context(), app, args[0]); err != nil {
				return err
			}

			st, err := app.Subtasks.Cancel(cmd.Context(), in)
			if err != nil {
				return err
			}
			p, err := app.Progress.Progress(cmd.Context(), st.ID)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSubtask(st, p, app.now()))
			return nil
		},
	}

	addExpectedVersionFlag(cmd.Flags(), &in.ExpectedVersion)
	return cmd
}
