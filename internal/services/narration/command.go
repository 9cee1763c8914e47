package narration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// execCommand allows us to mock exec.CommandContext in tests
var execCommand = exec.CommandContext

// DefaultCommand runs edge-tts with its default voice. Placeholders: {input} is a text file
// holding the script, {output} the MP3 to write, {voice} the configured voice.
const DefaultCommand = "edge-tts --file {input} --write-media {output}"

// CommandNarrator runs an external text-to-speech program
type CommandNarrator struct {
	args  []string
	voice string
}

// NewCommandNarrator parses a command template. An empty template uses DefaultCommand.
func NewCommandNarrator(template, voice string) (*CommandNarrator, error) {
	if strings.TrimSpace(template) == "" {
		template = DefaultCommand
	}
	args := strings.Fields(template)
	if !strings.Contains(template, "{output}") {
		return nil, &utils.ValidationError{Field: "narration.command", Message: "must contain the {output} placeholder"}
	}
	return &CommandNarrator{args: args, voice: voice}, nil
}

// Synthesize writes the script to a temporary text file next to destPath and runs the command
func (n *CommandNarrator) Synthesize(ctx context.Context, script, destPath string) (string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return "", errors.New("narration script is empty")
	}

	input, err := os.CreateTemp(filepath.Dir(destPath), "narration_*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create script file: %w", err)
	}
	defer func() {
		_ = os.Remove(input.Name())
	}()
	if _, err := input.WriteString(script); err != nil {
		_ = input.Close()
		return "", fmt.Errorf("failed to write script file: %w", err)
	}
	if err := input.Close(); err != nil {
		return "", fmt.Errorf("failed to write script file: %w", err)
	}

	args := n.expand(input.Name(), destPath)
	utils.LogDebug("Running %s", strings.Join(args, " "))
	cmd := execCommand(ctx, args[0], args[1:]...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s failed: %w\nOutput: %s", args[0], err, strings.TrimSpace(string(output)))
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return "", fmt.Errorf("%s did not produce %s: %w", args[0], destPath, err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%s produced an empty file", args[0])
	}

	utils.LogVerbose("🔊 Narration saved to %s", destPath)
	return destPath, nil
}

func (n *CommandNarrator) expand(inputPath, outputPath string) []string {
	replacer := strings.NewReplacer("{input}", inputPath, "{output}", outputPath, "{voice}", n.voice)
	args := make([]string, 0, len(n.args))
	for _, arg := range n.args {
		args = append(args, replacer.Replace(arg))
	}
	return args
}
