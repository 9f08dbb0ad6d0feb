package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/quorum/internal/cli/formatter"
	"github.com/alexanderramin/quorum/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Post and read threaded feedback on tasks and subtasks",
	}

	cmd.AddCommand(
		newFeedbackPostCmd(app),
		newFeedbackListCmd(app),
	)

	return cmd
}

func newFeedbackPostCmd(app *App) *cobra.Command {
	var body, parent, submission string

	cmd := &cobra.Command{
		Use:   "post <work-item-id>",
		Short: "Post a feedback entry or reply",
		Long: "Post a feedback entry on a task or subtask. Without --body the\n" +
			"entry is read from an interactive prompt when stdin is a terminal.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			workItemID, err := resolveWorkItemID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			if strings.TrimSpace(body) == "" {
				if !app.interactive() {
					return errors.New("--body is required when not running in a terminal")
				}
				prompt := app.PromptBody
				if prompt == nil {
					prompt = promptFeedbackBody
				}
				if body, err = prompt("Feedback"); err != nil {
					return err
				}
			}

			in := service.PostFeedbackInput{
				WorkItemID: workItemID,
				Author:     actor,
				Body:       body,
			}
			if parent != "" {
				in.ParentID = &parent
			}
			if submission != "" {
				in.SubmissionID = &submission
			}

			res, err := app.Feedback.Post(cmd.Context(), in)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatFeedbackResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Entry text")
	cmd.Flags().StringVar(&parent, "parent", "", "Entry id this replies to")
	cmd.Flags().StringVar(&submission, "submission", "", "Submission this entry refers to")
	return cmd
}

func newFeedbackListCmd(app *App) *cobra.Command {
	var nested bool

	cmd := &cobra.Command{
		Use:   "list <work-item-id>",
		Short: "Show the feedback thread of a task or subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workItemID, err := resolveWorkItemID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if nested {
				roots, err := app.Feedback.Nested(cmd.Context(), workItemID)
				if err != nil {
					return err
				}
				printOut(cmd, formatter.FormatFeedbackTree(roots, app.now()))
				return nil
			}
			entries, err := app.Feedback.List(cmd.Context(), workItemID)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatFeedbackFlat(entries, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&nested, "nested", false, "Group replies under their parent")
	return cmd
}

// promptFeedbackBody reads a multi-line body with a huh text form.
func promptFeedbackBody(title string) (string, error) {
	var body string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Placeholder("Write your feedback…").
				Value(&body).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("feedback must not be empty")
					}
					return nil
				}),
		),
	).WithTheme(quorumHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return "", err
	}
	return body, nil
}

func quorumHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
