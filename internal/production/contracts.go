package production

import (
	"context"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/plan"
)

// Variant is the video format being produced
type Variant string

const (
	VariantLong  Variant = "long"
	VariantShort Variant = "short"
)

// Slide is one titled block of lesson text
type Slide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LessonContent is the structured text the content provider returns for one lesson
type LessonContent struct {
	LongFormSlides     []Slide `json:"long_form_slides"`
	ShortFormHighlight string  `json:"short_form_highlight"`
	Hashtags           string  `json:"hashtags,omitempty"`
}

// SlideSpec describes a slide image to render. Number and Total feed the footer.
type SlideSpec struct {
	Variant Variant
	Slide   Slide
	Number  int
	Total   int
}

// Upload is the metadata sent along with a finished video
type Upload struct {
	VideoPath     string
	Title         string
	Description   string
	Tags          []string
	ThumbnailPath string
}

// PlanStore loads and persists the content plan
type PlanStore interface {
	LoadOrCreate(ctx context.Context) (*plan.ContentPlan, error)
	Save(p *plan.ContentPlan) error
}

// ContentProvider produces the lesson text for a lesson title
type ContentProvider interface {
	LessonContent(ctx context.Context, title string) (*LessonContent, error)
}

// Narrator synthesizes speech for script into an audio file at destPath and returns the written path
type Narrator interface {
	Synthesize(ctx context.Context, script, destPath string) (string, error)
}

// SlideRenderer draws slide and thumbnail images
type SlideRenderer interface {
	RenderSlide(ctx context.Context, dir string, spec SlideSpec) (string, error)
	RenderThumbnail(ctx context.Context, path string, variant Variant, title string) (string, error)
}

// Assembler builds a video from ordered slide images and a narration track
type Assembler interface {
	Assemble(ctx context.Context, images []string, audioPath, destPath string, variant Variant) error
}

// Publisher uploads a video and returns its published identifier.
// An empty identifier with a nil error means the platform did not accept the video.
type Publisher interface {
	Publish(ctx context.Context, upload Upload) (string, error)
}

// Archiver copies a finished artifact to long-term storage
type Archiver interface {
	Archive(ctx context.Context, path string) error
}

// LessonProducer runs the full production sequence for one lesson
type LessonProducer interface {
	Produce(ctx context.Context, lesson plan.Lesson) (string, error)
}

// Waiter pauses between rate-limited steps
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// SleepWaiter waits in real time and returns early when ctx is done
type SleepWaiter struct{}

// Wait blocks for d or until ctx is cancelled
func (SleepWaiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
