package cli

import (
	"github.com/alexanderramin/quorum/internal/cli/formatter"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/spf13/cobra"
)

func newRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage who works on a subtask",
	}

	cmd.AddCommand(
		newRosterAssignCmd(app),
		newRosterRemoveCmd(app),
		newRosterListCmd(app),
		newRosterHistoryCmd(app),
		newRosterLeadCmd(app),
	)

	return cmd
}

func newRosterAssignCmd(app *App) *cobra.Command {
	var in service.AssignInput

	cmd := &cobra.Command{
		Use:   "assign <subtask-id> <employee-id>...",
		Short: "Assign employees to a subtask",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			in.Actor = actor
			if in.SubtaskID, err = resolveSubtaskID(cmd.Context(), app, args[0]); err != nil {
				return err
			}
			in.EmployeeIDs = args[1:]

			res, err := app.Roster.Assign(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatRosterResult(res))
			return nil
		},
	}

	addExpectedVersionFlag(cmd.Flags(), &in.ExpectedVersion)
	return cmd
}

func newRosterRemoveCmd(app *App) *cobra.Command {
	var in service.RemoveInput

	cmd := &cobra.Command{
		Use:   "remove <subtask-id> <employee-id>",
		Short: "Remove an employee from a subtask; their submissions are kept",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			in.Actor = actor
			if in.SubtaskID, err = resolveSubtaskID(cmd.Context(), app, args[0]); err != nil {
				return err
			}
			in.EmployeeID = args[1]

			res, err := app.Roster.Remove(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatRosterResult(res))
			return nil
		},
	}

	addExpectedVersionFlag(cmd.Flags(), &in.ExpectedVersion)
	return cmd
}

func newRosterListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list <subtask-id>",
		Short: "List the active roster of a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSubtaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			var (
				as    []*domain.Assignment
				title = "Roster"
			)
			if all {
				as, err = app.Roster.Assignments(cmd.Context(), id)
				title = "Assignments"
			} else {
				as, err = app.Roster.ActiveRoster(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatRoster(title, as, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include closed assignment periods")
	return cmd
}

func newRosterHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <subtask-id>",
		Short: "Show the ordered roster change log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSubtaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			events, err := app.Roster.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatRosterHistory(events, app.now()))
			return nil
		},
	}
}

func newRosterLeadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lead <subtask-id> <team-lead-id>",
		Short: "Hand a subtask over to another team lead",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			id, err := resolveSubtaskID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Roster.AssignTeamLead(cmd.Context(), id, args[1], actor)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatRosterResult(res))
			return nil
		},
	}
}
