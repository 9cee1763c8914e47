package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cleanupDir    string
	olderThanDays int
	cleanupDryRun bool
)

// artifactPrefixes are the name prefixes of everything a lesson writes into the workspace
var artifactPrefixes = []string{"long_", "short_", "slides_", "thumb_", "concat_", "narration_"}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old lesson artifacts from the workspace",
	Long: `Delete narration, slide directories, thumbnails and videos older than the given
number of days from the workspace. The content plan is never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cleanupDir
		if dir == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = cfg.Run.WorkspaceDir
		}
		if olderThanDays < 0 {
			return fmt.Errorf("--older-than must not be negative")
		}

		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			utils.LogInfo("Workspace %s does not exist, nothing to clean", dir)
			return nil
		}

		cutoff := time.Now().AddDate(0, 0, -olderThanDays)
		stale, err := staleArtifacts(dir, cutoff)
		if err != nil {
			return err
		}

		if len(stale) == 0 {
			utils.LogInfo("No artifacts to delete.")
			return nil
		}

		utils.LogInfo("Found %d artifacts to delete:", len(stale))
		for _, path := range stale {
			utils.LogInfo("- %s", filepath.Base(path))
		}

		if cleanupDryRun {
			utils.LogInfo("Dry run - nothing was deleted.")
			return nil
		}

		failed := 0
		for _, path := range stale {
			if err := os.RemoveAll(path); err != nil {
				utils.LogWarning("Error deleting %s: %v", path, err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("failed to delete %d of %d artifacts", failed, len(stale))
		}

		utils.LogSuccess("Cleanup completed.")
		return nil
	},
}

// staleArtifacts lists workspace entries produced by lessons and last modified before cutoff
func staleArtifacts(dir string, cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace: %w", err)
	}

	var stale []string
	for _, entry := range entries {
		if !isArtifact(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			stale = append(stale, filepath.Join(dir, entry.Name()))
		}
	}
	return stale, nil
}

func isArtifact(name string) bool {
	for _, prefix := range artifactPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return strings.HasSuffix(name, ".wav") || strings.HasSuffix(name, ".part")
}

func init() {
	cleanupCmd.Flags().StringVarP(&cleanupDir, "dir", "d", "", "Workspace to clean up (default run.workspaceDir)")
	cleanupCmd.Flags().IntVarP(&olderThanDays, "older-than", "o", 7, "Delete artifacts older than this many days")
	cleanupCmd.Flags().BoolVarP(&cleanupDryRun, "dry-run", "n", false, "Show what would be deleted without actually deleting")
	rootCmd.AddCommand(cleanupCmd)
}
