package cli

import (
	"github.com/alexanderramin/quorum/internal/cli/formatter"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage client tasks",
	}

	cmd.AddCommand(
		newTaskCreateCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskArchiveCmd(app),
		newTaskProgressCmd(app),
	)

	return cmd
}

func newTaskCreateCmd(app *App) *cobra.Command {
	var in service.CreateTaskInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task from a client request",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			in.Actor = actor

			task, err := app.Tasks.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTask(task, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.ClientName, "client", "", "Client name")
	cmd.Flags().StringVar(&in.FormID, "form", "", "External form id")
	cmd.Flags().StringVar(&in.Title, "title", "", "Display title (defaults to the client name)")
	cmd.Flags().StringVar(&in.DepartmentID, "department", "", "Department id")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("form")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTaskList(tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived tasks")
	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTask(task, app.now()))
			return nil
		},
	}
}

func newTaskArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <task-id>",
		Short: "Archive a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.Archive(cmd.Context(), id, actor)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTask(task, app.now()))
			return nil
		},
	}
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <task-id>",
		Short: "Show subtask completion and quotas for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			tp, err := app.Progress.ProgressByTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTaskProgress(tp, app.now()))
			return nil
		},
	}
}
