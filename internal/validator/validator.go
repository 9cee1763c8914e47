// Package validator checks that the external tools and environment variables a run needs are present
package validator

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// execCommand allows us to mock exec.Command in tests
var execCommand = exec.Command

// ExternalTool represents an external command-line tool requirement
type ExternalTool struct {
	Name        string
	VersionArgs []string
	Validate    func(output string) bool
}

// RequiredTools must be installed for video assembly
var RequiredTools = []ExternalTool{
	{
		Name:        "ffmpeg",
		VersionArgs: []string{"-version"},
		Validate: func(output string) bool {
			return strings.Contains(output, "ffmpeg version")
		},
	},
	{
		Name:        "ffprobe",
		VersionArgs: []string{"-version"},
		Validate: func(output string) bool {
			return strings.Contains(output, "ffprobe version")
		},
	},
}

// EdgeTTS is needed only by the command narration engine with its default command
var EdgeTTS = ExternalTool{
	Name:        "edge-tts",
	VersionArgs: []string{"--help"},
	Validate: func(output string) bool {
		return strings.Contains(strings.ToLower(output), "usage")
	},
}

// ValidateExternalTools checks that all required tools are installed. Optional tools are
// reported but never fail the check.
func ValidateExternalTools(required, optional []ExternalTool) error {
	for _, tool := range required {
		path, err := utils.ExecLookPath(tool.Name)
		if err != nil {
			return fmt.Errorf("tool %s not found in PATH: %w", tool.Name, err)
		}

		output, err := execCommand(path, tool.VersionArgs...).Output()
		if err != nil {
			return fmt.Errorf("failed to run %s: %w", tool.Name, err)
		}

		if !tool.Validate(string(output)) {
			return fmt.Errorf("invalid version of %s detected", tool.Name)
		}

		utils.LogVerbose("✓ %s found at %s", tool.Name, path)
	}

	for _, tool := range optional {
		path, err := utils.ExecLookPath(tool.Name)
		if err != nil {
			utils.LogWarning("Optional tool %s not found: %v", tool.Name, err)
			continue
		}

		output, err := execCommand(path, tool.VersionArgs...).CombinedOutput()
		if err != nil || !tool.Validate(string(output)) {
			utils.LogVerbose("ℹ️ Optional tool %s found but couldn't verify it", tool.Name)
			continue
		}

		utils.LogVerbose("✓ Optional tool %s found at %s", tool.Name, path)
	}

	return nil
}

// ValidateEnvVars checks that every variable in names is set and non-empty
func ValidateEnvVars(names []string) error {
	var missing []string
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			missing = append(missing, name)
			continue
		}
		// Don't print the actual value for security
		utils.LogVerbose("✓ %s is set", name)
	}
	if len(missing) > 0 {
		return fmt.Errorf("environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
