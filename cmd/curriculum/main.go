package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/lessonplan-backend/internal/app"
	types "github.com/yungbote/lessonplan-backend/internal/domain"
	"github.com/yungbote/lessonplan-backend/internal/platform/shutdown"
)

var outputFormat string

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "curriculum",
		Short: "Manage the curriculum used as lesson plan context",
		Long: `curriculum seeds and inspects the aulas_curriculo table and can run a
one-off lesson plan generation against the configured model list.
Database and model settings come from the same environment as the server.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json")

	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newGenerateCommand())
	return rootCmd
}

type seedFile struct {
	Lessons []*types.CurriculumLesson `yaml:"lessons"`
}

func readSeedFile(path string) ([]*types.CurriculumLesson, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Lessons) == 0 {
		return nil, fmt.Errorf("%s: no lessons", path)
	}
	return f.Lessons, nil
}

func newSeedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert or update lessons from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			lessons, err := readSeedFile(file)
			if err != nil {
				return err
			}
			a, err := app.NewCurriculum(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.Services.Curriculum.UpsertLessons(cmd.Context(), lessons)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d lessons\n", len(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "config/curriculum.yaml", "YAML file with a top-level lessons list")
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List curriculum lessons",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.NewCurriculum(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			lessons, err := a.Services.Curriculum.ListLessons(cmd.Context())
			if err != nil {
				return err
			}
			if outputFormat == "json" {
				return printJSON(cmd, lessons)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NUMERO\tTEMA_AULA\tDURACAO")
			for _, l := range lessons {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.LessonNumber, l.LessonTopic, l.Duration)
			}
			return w.Flush()
		},
	}
}

func newGenerateCommand() *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one lesson plan and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(topic) == "" {
				return fmt.Errorf("--topic is required")
			}
			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Services.LessonPlan.Generate(cmd.Context(), topic)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "candidate: %s\n", res.Candidate)
			if res.IsPlan() {
				return printJSON(cmd, res.Plan)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.RawText)
			return nil
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Lesson topic")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
