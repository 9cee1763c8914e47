package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gnzdotmx/lessonflowai/internal/plan"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/spf13/cobra"
)

var initPlan bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the content plan",
	Long: `Print every lesson of the content plan with its status and published video id.
With --init the plan is generated from the configured LLM when it does not exist yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store := plan.NewStore(cfg.Run.PlanFile, nil)
		exists, err := store.Exists()
		if err != nil {
			return err
		}
		if !exists {
			if !initPlan {
				return fmt.Errorf("content plan %s does not exist; create it with `lessonflowai plan --init`", cfg.Run.PlanFile)
			}
			generator, release, err := newGenerator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer release()
			store = plan.NewStore(cfg.Run.PlanFile, generator)
		}

		p, err := store.LoadOrCreate(cmd.Context())
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), p)
		return nil
	},
}

func printPlan(w io.Writer, p *plan.ContentPlan) {
	pending, complete := p.Counts()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tCHAPTER\tPART\tSTATUS\tVIDEO\tTITLE")
	for i, lesson := range p.Lessons {
		id := lesson.PublishedID()
		if id == "" {
			id = "-"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, lesson.Chapter, lesson.Part, lesson.Status, id, lesson.Title)
	}
	if err := tw.Flush(); err != nil {
		utils.LogWarning("Failed to print plan: %v", err)
	}
	_, _ = fmt.Fprintf(w, "\n%d lessons: %d complete, %d pending\n", len(p.Lessons), complete, pending)
}

func init() {
	planCmd.Flags().BoolVar(&initPlan, "init", false, "Generate the content plan when it does not exist")
	rootCmd.AddCommand(planCmd)
}
