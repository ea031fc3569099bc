package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mind-engage/questionui/internal/attempt"
	"github.com/mind-engage/questionui/internal/questionui"
)

func newAttemptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attempt",
		Short: "Start, answer, score and view attempts stored in the configured database",
	}
	cmd.AddCommand(
		newAttemptStartCmd(),
		newAttemptViewCmd(),
		newAttemptResponseCmd("save", "Store a response without scoring it", (*attempt.Service).Save),
		newAttemptResponseCmd("submit", "Store a response and score it", (*attempt.Service).Submit),
		newAttemptIDCmd("restart", "Clear the response and draw a new seed", (*attempt.Service).Restart),
		newAttemptIDCmd("edit", "Drop the score so the response can be changed", (*attempt.Service).Edit),
		newAttemptIDCmd("rescore", "Grade the stored response again", (*attempt.Service).Rescore),
		newAttemptOptionsCmd(),
		newAttemptListCmd(),
	)
	return cmd
}

// withService runs fn with an attempt service bound to a fresh database
// handle.
func withService(cmd *cobra.Command, fn func(*attempt.Service) error) error {
	svc, dbh, err := appFrom(cmd).attempts(cmd.Context())
	if err != nil {
		return err
	}
	defer dbh.Close()
	return fn(svc)
}

func printAttempt(w io.Writer, a attempt.Attempt) {
	fmt.Fprintf(w, "%s\t%s\tseed=%d", a.ID, a.Status, a.Seed)
	if a.Score != nil {
		fmt.Fprintf(w, "\tscore=%g/%g", a.Score.Points, a.Score.MaxPoints)
		if len(a.Score.Missing) > 0 {
			fmt.Fprintf(w, "\tmissing=%v", a.Score.Missing)
		}
	}
	fmt.Fprintln(w)
}

func newAttemptStartCmd() *cobra.Command {
	var questionID, placeholders string
	cmd := &cobra.Command{
		Use:   "start <file>",
		Short: "Start an attempt at the question UI in file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readDocument(args[0])
			if err != nil {
				return err
			}
			ui := attempt.UI{Content: src}
			if err := loadValues(placeholders, &ui.Placeholders); err != nil {
				return err
			}
			if questionID == "" {
				questionID = args[0]
			}
			return withService(cmd, func(svc *attempt.Service) error {
				a, err := svc.Start(cmd.Context(), questionID, ui)
				if err != nil {
					return err
				}
				printAttempt(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&questionID, "question-id", "", "question identifier (default: the file path)")
	cmd.Flags().StringVar(&placeholders, "placeholders", "", "YAML/JSON file with placeholder values")
	return cmd
}

func newAttemptViewCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Render an attempt the way its status and display options allow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *attempt.Service) error {
				v, err := svc.View(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if format != "html" {
					return printValue(cmd, format, v)
				}
				out := cmd.OutOrStdout()
				for _, part := range []struct {
					name, html string
				}{
					{"formulation", v.Formulation},
					{"general-feedback", v.GeneralFeedback},
					{"specific-feedback", v.SpecificFeedback},
					{"right-answer", v.RightAnswer},
				} {
					if part.html == "" {
						continue
					}
					fmt.Fprintf(out, "<!-- %s -->\n%s\n", part.name, part.html)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "html", "html|json|yaml")
	return cmd
}

type responseFunc func(*attempt.Service, context.Context, string, questionui.Response) (attempt.Attempt, error)

func newAttemptResponseCmd(use, short string, fn responseFunc) *cobra.Command {
	var responseFile string
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var response questionui.Response
			if err := loadValues(responseFile, &response); err != nil {
				return err
			}
			return withService(cmd, func(svc *attempt.Service) error {
				a, err := fn(svc, cmd.Context(), args[0], response)
				if err != nil {
					return err
				}
				printAttempt(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&responseFile, "response", "", "YAML/JSON file with the response")
	return cmd
}

type idFunc func(*attempt.Service, context.Context, string) (attempt.Attempt, error)

func newAttemptIDCmd(use, short string, fn idFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *attempt.Service) error {
				a, err := fn(svc, cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printAttempt(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}
}

func newAttemptOptionsCmd() *cobra.Command {
	var optionsFile string
	cmd := &cobra.Command{
		Use:   "options <id>",
		Short: "Replace the display options of an attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := questionui.DefaultDisplayOptions()
			if err := loadValues(optionsFile, &opts); err != nil {
				return err
			}
			return withService(cmd, func(svc *attempt.Service) error {
				a, err := svc.SetDisplayOptions(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				printAttempt(cmd.OutOrStdout(), a)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&optionsFile, "options", "", "YAML/JSON file with display options")
	return cmd
}

func newAttemptListCmd() *cobra.Command {
	var opts attempt.ListOpts
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attempts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Status = attempt.Status(status)
			return withService(cmd, func(svc *attempt.Service) error {
				list, err := svc.List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				for _, a := range list {
					printAttempt(cmd.OutOrStdout(), a)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.QuestionID, "question-id", "", "only attempts at this question")
	cmd.Flags().StringVar(&status, "status", "", "started|scored")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of attempts")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "attempts to skip")
	return cmd
}
