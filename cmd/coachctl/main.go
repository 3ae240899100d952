package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/interviewcoach/coach/internal/app"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/planner"
	"github.com/interviewcoach/coach/internal/platform/ctxutil"
	"github.com/interviewcoach/coach/internal/platform/docparse"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coachctl",
		Short: "Drive the interview coach pipeline from the command line",
	}

	rootCmd.AddCommand(
		uploadDocumentCmd(),
		extractSkillsCmd(),
		analyzeGapsCmd(),
		generatePlanCmd(),
		briefingCmd(),
		updateTaskCmd(),
		rescheduleTaskCmd(),
		carryOverCmd(),
		autoRescheduleCmd(),
		generatePracticeCmd(),
		submitAttemptCmd(),
		masteryStatsCmd(),
		analyzeAdaptationCmd(),
		applyAdaptationCmd(),
		projectCalendarCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withApp builds the App, runs fn, and closes the App whether fn succeeds
// or not, so every command shares the same bootstrap/teardown sequence.
func withApp(fn func(ctx context.Context, a *app.App) (any, error)) error {
	a, err := app.New()
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{RequestID: uuid.New().String()})
	result, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", raw, err)
	}
	return t, nil
}

func uploadDocumentCmd() *cobra.Command {
	var userID, kind, path string
	var chunkSize int
	cmd := &cobra.Command{
		Use:   "upload-document",
		Short: "Parse a plain-text résumé or job description and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %q: %w", path, err)
			}

			parser := docparse.NewPlainTextParser(chunkSize)
			parsed, err := parser.Parse(context.Background(), kind, raw)
			if err != nil {
				return fmt.Errorf("parse document: %w", err)
			}

			sections := make([]domain.DocumentSection, len(parsed.Sections))
			for i, s := range parsed.Sections {
				sections[i] = domain.DocumentSection{Name: s.Name, Text: s.Text, Offset: s.Offset}
			}
			chunks := make([]domain.DocumentChunk, len(parsed.Chunks))
			for i, c := range parsed.Chunks {
				chunks[i] = domain.DocumentChunk{Text: c.Text, Offset: c.Offset}
			}

			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.UploadDocument(ctx, uID, domain.DocumentKind(kind), string(raw), sections, chunks)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&kind, "kind", "", "document kind: resume or jd")
	cmd.Flags().StringVar(&path, "file", "", "path to the plain-text document")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "retrieval chunk size in runes, 0 uses the default")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("kind")
	cmd.MarkFlagRequired("file")
	return cmd
}

func extractSkillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-skills [document_id]",
		Short: "Extract evidence-backed skills from an uploaded document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, err := parseUUID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.ExtractSkills(ctx, docID)
			})
		},
	}
}

func analyzeGapsCmd() *cobra.Command {
	var userID, resumeID, jdID string
	cmd := &cobra.Command{
		Use:   "analyze-gaps",
		Short: "Compare a resume against a job description and report skill gaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			rID, err := parseUUID(resumeID)
			if err != nil {
				return err
			}
			jID, err := parseUUID(jdID)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.AnalyzeGaps(ctx, uID, rID, jID)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&resumeID, "resume", "", "resume document id")
	cmd.Flags().StringVar(&jdID, "jd", "", "job description document id")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("resume")
	cmd.MarkFlagRequired("jd")
	return cmd
}

func generatePlanCmd() *cobra.Command {
	var userID string
	var weeks int
	var hoursPerWeek float64
	var interviewDate string
	cmd := &cobra.Command{
		Use:   "generate-plan",
		Short: "Synthesize a study plan from the user's recorded skill gaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			constraints := planner.Constraints{Weeks: weeks, HoursPerWeek: hoursPerWeek}
			if interviewDate != "" {
				d, err := parseDate(interviewDate)
				if err != nil {
					return err
				}
				constraints.InterviewDate = &d
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.GeneratePlan(ctx, uID, constraints)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "plan length in weeks")
	cmd.Flags().Float64Var(&hoursPerWeek, "hours-per-week", 0, "study hours per week")
	cmd.Flags().StringVar(&interviewDate, "interview-date", "", "optional target interview date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("weeks")
	cmd.MarkFlagRequired("hours-per-week")
	return cmd
}

func briefingCmd() *cobra.Command {
	var userID, date string
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Get the day's task summary and motivational message",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			d, err := resolveDateFlag(date)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.GetBriefing(ctx, uID, d)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	cmd.MarkFlagRequired("user")
	return cmd
}

func updateTaskCmd() *cobra.Command {
	var status string
	var actualMinutes int
	cmd := &cobra.Command{
		Use:   "update-task [task_id]",
		Short: "Apply a status transition and/or actual-minutes update to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseUUID(args[0])
			if err != nil {
				return err
			}
			var statusPtr *domain.TaskStatus
			if status != "" {
				s := domain.TaskStatus(status)
				statusPtr = &s
			}
			var minutesPtr *int
			if cmd.Flags().Changed("actual-minutes") {
				minutesPtr = &actualMinutes
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.UpdateTask(ctx, taskID, statusPtr, minutesPtr)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "new status: pending, in_progress, completed, skipped")
	cmd.Flags().IntVar(&actualMinutes, "actual-minutes", 0, "actual minutes spent")
	return cmd
}

func rescheduleTaskCmd() *cobra.Command {
	var newDate, reason string
	cmd := &cobra.Command{
		Use:   "reschedule-task [task_id]",
		Short: "Move a task to a new date within the plan's window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseUUID(args[0])
			if err != nil {
				return err
			}
			d, err := parseDate(newDate)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.RescheduleTask(ctx, taskID, d, reason)
			})
		},
	}
	cmd.Flags().StringVar(&newDate, "new-date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reason, "reason", "", "optional reason")
	cmd.MarkFlagRequired("new-date")
	return cmd
}

func carryOverCmd() *cobra.Command {
	var userID, fromDate, toDate string
	cmd := &cobra.Command{
		Use:   "carry-over",
		Short: "Move a user's pending/in-progress tasks from one date to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			from, err := parseDate(fromDate)
			if err != nil {
				return err
			}
			to, err := parseDate(toDate)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.CarryOver(ctx, uID, from, to)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&fromDate, "from", "", "source date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "destination date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func autoRescheduleCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "auto-reschedule-overdue",
		Short: "Distribute a user's overdue tasks across the next few days",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				moved, remaining, err := a.Orchestrator.AutoRescheduleOverdue(ctx, uID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"moved": moved, "remaining": remaining}, nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.MarkFlagRequired("user")
	return cmd
}

func generatePracticeCmd() *cobra.Command {
	var itemType string
	var count int
	cmd := &cobra.Command{
		Use:   "generate-practice [task_id]",
		Short: "Create fresh practice items for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseUUID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.GeneratePractice(ctx, taskID, domain.PracticeType(itemType), count)
			})
		},
	}
	cmd.Flags().StringVar(&itemType, "type", "", "practice item type")
	cmd.Flags().IntVar(&count, "count", 1, "number of items to generate")
	cmd.MarkFlagRequired("type")
	return cmd
}

func submitAttemptCmd() *cobra.Command {
	var userID, practiceItemID, taskID, answer string
	var timeSpentSec int
	cmd := &cobra.Command{
		Use:   "submit-attempt",
		Short: "Submit and grade an answer to a practice item",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			itemID, err := parseUUID(practiceItemID)
			if err != nil {
				return err
			}
			var taskIDPtr *uuid.UUID
			if taskID != "" {
				id, err := parseUUID(taskID)
				if err != nil {
					return err
				}
				taskIDPtr = &id
			}
			var timeSpentPtr *int
			if cmd.Flags().Changed("time-spent") {
				timeSpentPtr = &timeSpentSec
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.SubmitAttempt(ctx, uID, itemID, taskIDPtr, answer, timeSpentPtr)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&practiceItemID, "item", "", "practice item id")
	cmd.Flags().StringVar(&taskID, "task", "", "optional originating task id")
	cmd.Flags().StringVar(&answer, "answer", "", "submitted answer text")
	cmd.Flags().IntVar(&timeSpentSec, "time-spent", 0, "time spent in seconds")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("answer")
	return cmd
}

func masteryStatsCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "mastery-stats",
		Short: "Summarize a user's mastery across all tracked skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.GetMasteryStats(ctx, uID)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.MarkFlagRequired("user")
	return cmd
}

func analyzeAdaptationCmd() *cobra.Command {
	var userID, planID string
	cmd := &cobra.Command{
		Use:   "analyze-adaptation",
		Short: "Report weak/strong skills and recommended plan changes without applying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			pID, err := parseUUID(planID)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.AnalyzeAdaptation(ctx, uID, pID)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&planID, "plan", "", "study plan id")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("plan")
	return cmd
}

func applyAdaptationCmd() *cobra.Command {
	var userID, planID string
	cmd := &cobra.Command{
		Use:   "apply-adaptation",
		Short: "Apply recommended plan changes for weak/strong skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			uID, err := parseUUID(userID)
			if err != nil {
				return err
			}
			pID, err := parseUUID(planID)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.ApplyAdaptation(ctx, uID, pID)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&planID, "plan", "", "study plan id")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("plan")
	return cmd
}

func projectCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project-calendar [plan_id]",
		Short: "Render a plan's tasks as calendar events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseUUID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) (any, error) {
				return a.Orchestrator.ProjectCalendar(ctx, planID)
			})
		},
	}
}

func resolveDateFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return parseDate(raw)
}
