package narration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// Polly rejects requests over 3000 billed characters
const pollyMaxChars = 2800

// pollyAPI is the part of *polly.Polly the narrator calls
type pollyAPI interface {
	SynthesizeSpeechWithContext(ctx aws.Context, input *polly.SynthesizeSpeechInput, opts ...request.Option) (*polly.SynthesizeSpeechOutput, error)
}

// PollyNarrator synthesizes MP3 narration with Amazon Polly's neural voices
type PollyNarrator struct {
	client pollyAPI
	voice  string
}

// NewPollyNarrator creates a Polly narrator speaking with voice
func NewPollyNarrator(sess *session.Session, voice string) *PollyNarrator {
	return &PollyNarrator{client: polly.New(sess), voice: voice}
}

// Synthesize writes the narration of script to destPath. Long scripts are synthesized in
// chunks whose MP3 streams are appended to the same file.
func (n *PollyNarrator) Synthesize(ctx context.Context, script, destPath string) (string, error) {
	chunks := SplitScript(script, pollyMaxChars)
	if len(chunks) == 0 {
		return "", errors.New("narration script is empty")
	}

	partial := destPath + ".part"
	out, err := os.Create(partial)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", partial, err)
	}
	defer func() {
		_ = out.Close()
		_ = os.Remove(partial)
	}()

	for i, chunk := range chunks {
		utils.LogDebug("Polly chunk %d/%d (%d chars)", i+1, len(chunks), len(chunk))
		if err := n.synthesizeChunk(ctx, chunk, out); err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("error saving MP3: %w", err)
	}
	if err := os.Rename(partial, destPath); err != nil {
		return "", fmt.Errorf("error saving MP3: %w", err)
	}

	utils.LogVerbose("🔊 Narration saved to %s", destPath)
	return destPath, nil
}

func (n *PollyNarrator) synthesizeChunk(ctx context.Context, text string, w io.Writer) error {
	output, err := n.client.SynthesizeSpeechWithContext(ctx, &polly.SynthesizeSpeechInput{
		Engine:       aws.String(polly.EngineNeural),
		OutputFormat: aws.String(polly.OutputFormatMp3),
		Text:         aws.String(text),
		VoiceId:      aws.String(n.voice),
	})
	if err != nil {
		return fmt.Errorf("error calling SynthesizeSpeech: %w", err)
	}
	if output.AudioStream == nil {
		return errors.New("SynthesizeSpeech returned no audio")
	}
	defer func() {
		_ = output.AudioStream.Close()
	}()

	if _, err := io.Copy(w, output.AudioStream); err != nil {
		return fmt.Errorf("error saving MP3: %w", err)
	}
	return nil
}
