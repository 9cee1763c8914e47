package validator

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/stretchr/testify/assert"
)

// TestMain sets up and tears down the mock command
func TestMain(m *testing.M) {
	result := m.Run()
	execCommand = exec.Command
	utils.ExecLookPath = exec.LookPath
	os.Exit(result)
}

func fakeExecCommand(command string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", command}
	cs = append(cs, args...)
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess is not a real test, it's used to mock exec.Command
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	switch args[1] {
	case "/usr/bin/ffmpeg":
		fmt.Print("ffmpeg version 6.1.1 Copyright (c) 2000-2023")
	case "/usr/bin/ffprobe":
		fmt.Print("ffprobe version 6.1.1")
	case "/usr/bin/edge-tts":
		fmt.Print("usage: edge-tts [-h]")
	default:
		fmt.Print("something else")
	}
	os.Exit(0)
}

func lookPathIn(installed ...string) func(string) (string, error) {
	return func(file string) (string, error) {
		for _, name := range installed {
			if name == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func TestValidateExternalTools(t *testing.T) {
	execCommand = fakeExecCommand
	defer func() {
		execCommand = exec.Command
		utils.ExecLookPath = exec.LookPath
	}()

	wrongVersion := ExternalTool{Name: "ffmpeg", VersionArgs: []string{"-version"}, Validate: func(string) bool { return false }}

	tests := []struct {
		name      string
		installed []string
		required  []ExternalTool
		optional  []ExternalTool
		wantErr   string
	}{
		{name: "all present", installed: []string{"ffmpeg", "ffprobe", "edge-tts"}, required: RequiredTools, optional: []ExternalTool{EdgeTTS}},
		{name: "optional missing is fine", installed: []string{"ffmpeg", "ffprobe"}, required: RequiredTools, optional: []ExternalTool{EdgeTTS}},
		{name: "ffprobe missing", installed: []string{"ffmpeg"}, required: RequiredTools, wantErr: "tool ffprobe not found"},
		{name: "required edge-tts missing", installed: []string{"ffmpeg", "ffprobe"}, required: append(RequiredTools, EdgeTTS), wantErr: "tool edge-tts not found"},
		{name: "unexpected version output", installed: []string{"ffmpeg"}, required: []ExternalTool{wrongVersion}, wantErr: "invalid version of ffmpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utils.ExecLookPath = lookPathIn(tt.installed...)
			err := ValidateExternalTools(tt.required, tt.optional)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateEnvVars(t *testing.T) {
	t.Setenv("LESSONFLOW_TEST_SET", "value")
	t.Setenv("LESSONFLOW_TEST_BLANK", "  ")

	assert.NoError(t, ValidateEnvVars(nil))
	assert.NoError(t, ValidateEnvVars([]string{"LESSONFLOW_TEST_SET"}))

	err := ValidateEnvVars([]string{"LESSONFLOW_TEST_SET", "LESSONFLOW_TEST_BLANK", "LESSONFLOW_TEST_UNSET"})
	assert.EqualError(t, err, "environment variables not set: LESSONFLOW_TEST_BLANK, LESSONFLOW_TEST_UNSET")
}
