package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/quorum/internal/cli/formatter"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/spf13/cobra"
)

func newSubmissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submission",
		Aliases: []string{"sub"},
		Short:   "Submit work and record tier decisions",
	}

	cmd.AddCommand(
		newSubmissionSubmitCmd(app),
		newSubmissionListCmd(app),
		newSubmissionShowCmd(app),
		newSubmissionDecideCmd(app),
		newSubmissionHistoryCmd(app),
	)

	return cmd
}

func newSubmissionSubmitCmd(app *App) *cobra.Command {
	var (
		subtaskRef string
		employee   string
		fields     map[string]string
		formJSON   string
		refs       []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a completed form for a subtask",
		RunE: func(cmd *cobra.Command, args []string) error {
			if employee == "" {
				actor, err := app.actor()
				if err != nil {
					return err
				}
				employee = actor.ID
			}
			subtaskID, err := resolveSubtaskID(cmd.Context(), app, subtaskRef)
			if err != nil {
				return err
			}

			formData := map[string]any{}
			if formJSON != "" {
				if err := json.Unmarshal([]byte(formJSON), &formData); err != nil {
					return fmt.Errorf("invalid --form-json: %w", err)
				}
			}
			for k, v := range fields {
				formData[k] = v
			}

			res, err := app.Submissions.Submit(cmd.Context(), service.SubmitInput{
				SubtaskID:      subtaskID,
				EmployeeID:     employee,
				FormData:       formData,
				AttachmentRefs: refs,
			})
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSubmitResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&subtaskRef, "subtask", "", "Subtask id or prefix")
	cmd.Flags().StringVar(&employee, "employee", "", "Submitting employee (defaults to --actor)")
	cmd.Flags().StringToStringVar(&fields, "field", nil, "Form field as key=value (repeatable)")
	cmd.Flags().StringVar(&formJSON, "form-json", "", "Form data as a JSON object")
	cmd.Flags().StringSliceVar(&refs, "attach", nil, "Attachment reference (repeatable)")
	_ = cmd.MarkFlagRequired("subtask")

	return cmd
}

func newSubmissionListCmd(app *App) *cobra.Command {
	var subtaskRef, employee string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions of a subtask",
		RunE: func(cmd *cobra.Command, args []string) error {
			subtaskID, err := resolveSubtaskID(cmd.Context(), app, subtaskRef)
			if err != nil {
				return err
			}
			var subs []*domain.Submission
			if employee != "" {
				subs, err = app.Submissions.ListByEmployee(cmd.Context(), subtaskID, employee)
			} else {
				subs, err = app.Submissions.ListBySubtask(cmd.Context(), subtaskID)
			}
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSubmissionList(subs, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&subtaskRef, "subtask", "", "Subtask id or prefix")
	cmd.Flags().StringVar(&employee, "employee", "", "Only this employee's submissions")
	_ = cmd.MarkFlagRequired("subtask")
	return cmd
}

func newSubmissionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <submission-id>",
		Short: "Show a submission with its tier statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Submissions.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSubmission(s, app.now()))
			return nil
		},
	}
}

func newSubmissionDecideCmd(app *App) *cobra.Command {
	var (
		in      service.DecideInput
		comment string
	)

	cmd := &cobra.Command{
		Use:   "decide <submission-id>",
		Short: "Record a tier decision on a submission",
		Long: "Record a tier decision on a submission. The tier defaults to the\n" +
			"one matching --role; --comment posts feedback linked to the submission.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			in.Actor = actor
			in.SubmissionID = args[0]
			if in.Tier == "" {
				tier, ok := domain.TierForRole(actor.Role)
				if !ok {
					return &domain.ValidationError{Field: "tier", Reason: fmt.Sprintf("role %s has no review tier", actor.Role)}
				}
				in.Tier = tier
			}
			if comment != "" {
				in.Comment = &comment
			}

			res, err := app.Submissions.Decide(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatDecision(res))
			return nil
		},
	}

	cmd.Flags().Var(tierValue{&in.Tier}, "tier", "Tier to write: manager, team_lead, admin")
	cmd.Flags().Var(tierStatusValue{&in.Status}, "status", "New status: pending, in_progress, approved, rejected")
	cmd.Flags().StringVar(&comment, "comment", "", "Feedback to post with the decision")
	addExpectedVersionFlag(cmd.Flags(), &in.ExpectedVersion)
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func newSubmissionHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <submission-id>",
		Short: "Show every tier transition of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := app.Submissions.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTransitions(ts, app.now()))
			return nil
		},
	}
}
