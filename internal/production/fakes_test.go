package production

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/plan"
)

// recorder collects the collaborator calls of one test in order
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.list() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type fakeContent struct {
	rec     *recorder
	content *LessonContent
	err     error
}

func (f *fakeContent) LessonContent(ctx context.Context, title string) (*LessonContent, error) {
	f.rec.add("content:%s", title)
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

type fakeNarrator struct {
	rec     *recorder
	scripts []string
	err     error
}

func (f *fakeNarrator) Synthesize(ctx context.Context, script, destPath string) (string, error) {
	f.rec.add("narrate:%s", filepath.Base(destPath))
	f.scripts = append(f.scripts, script)
	if f.err != nil {
		return "", f.err
	}
	return destPath, os.WriteFile(destPath, []byte("audio"), 0644)
}

type fakeRenderer struct {
	rec    *recorder
	slides []SlideSpec
	thumbs []string
}

func (f *fakeRenderer) RenderSlide(ctx context.Context, dir string, spec SlideSpec) (string, error) {
	f.rec.add("slide:%s:%d/%d", spec.Variant, spec.Number, spec.Total)
	f.slides = append(f.slides, spec)
	path := filepath.Join(dir, fmt.Sprintf("slide_%02d.png", spec.Number))
	return path, os.WriteFile(path, []byte("png"), 0644)
}

func (f *fakeRenderer) RenderThumbnail(ctx context.Context, path string, variant Variant, title string) (string, error) {
	f.rec.add("thumb:%s", variant)
	f.thumbs = append(f.thumbs, title)
	return path, os.WriteFile(path, []byte("png"), 0644)
}

type fakeAssembler struct {
	rec *recorder
	err error
}

func (f *fakeAssembler) Assemble(ctx context.Context, images []string, audioPath, destPath string, variant Variant) error {
	f.rec.add("assemble:%s:%d", variant, len(images))
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destPath, []byte("mp4"), 0644)
}

// publishResult is what the fake publisher answers for one call
type publishResult struct {
	id  string
	err error
}

type fakePublisher struct {
	rec     *recorder
	results []publishResult
	uploads []Upload
}

func (f *fakePublisher) Publish(ctx context.Context, upload Upload) (string, error) {
	f.rec.add("publish:%s", filepath.Base(upload.VideoPath))
	f.uploads = append(f.uploads, upload)
	if len(f.results) == 0 {
		return fmt.Sprintf("vid-%d", len(f.uploads)), nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.id, r.err
}

type fakeArchiver struct {
	rec *recorder
	err error
}

func (f *fakeArchiver) Archive(ctx context.Context, path string) error {
	f.rec.add("archive:%s", filepath.Base(path))
	return f.err
}

type recordingWaiter struct {
	rec   *recorder
	waits []time.Duration
	err   error
}

func (w *recordingWaiter) Wait(ctx context.Context, d time.Duration) error {
	if w.rec != nil {
		w.rec.add("wait:%s", d)
	}
	w.waits = append(w.waits, d)
	return w.err
}

// fakeProducer stands in for the whole single-lesson sequence
type fakeProducer struct {
	rec     *recorder
	produce func(lesson plan.Lesson) (string, error)
}

func (f *fakeProducer) Produce(ctx context.Context, lesson plan.Lesson) (string, error) {
	f.rec.add("produce:%s", lesson.Title)
	if f.produce == nil {
		return "id-" + lesson.Title, nil
	}
	return f.produce(lesson)
}

type fakeCurriculum struct {
	lessons []plan.Lesson
	calls   int
}

func (f *fakeCurriculum) GenerateCurriculum(ctx context.Context) ([]plan.Lesson, error) {
	f.calls++
	return f.lessons, nil
}

func lessons(titles ...string) []plan.Lesson {
	out := make([]plan.Lesson, 0, len(titles))
	for i, title := range titles {
		out = append(out, plan.Lesson{
			Chapter: plan.IntIdent(1),
			Part:    plan.IntIdent(i + 1),
			Title:   title,
			Status:  plan.StatusPending,
		})
	}
	return out
}

func sampleContent() *LessonContent {
	return &LessonContent{
		LongFormSlides: []Slide{
			{Title: "What", Content: "Embeddings map text to vectors."},
			{Title: "Why", Content: "Similar meaning ends up close together."},
		},
		ShortFormHighlight: "  Embeddings turn meaning into geometry.  ",
		Hashtags:           "#Embeddings #AI",
	}
}
