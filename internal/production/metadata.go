package production

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/plan"
)

const (
	// YouTube rejects titles longer than this many characters
	maxTitleLength = 100
	shortsSuffix   = " #Shorts"

	shortSlideTitle = "Quick Tip!"
	outroTitle      = "Thanks for Watching!"
	outroContent    = "Like, Share & Subscribe for more daily AI content!"
	longTagsPrefix  = "AI, Artificial Intelligence, Developer, Programming, Tutorial"
	shortHashtags   = "#AI #Programming #Tech #Developer"
	watchURL        = "https://www.youtube.com/watch?v="
)

var shortTags = []string{"AI", "Shorts", "TechTip"}

// ArtifactKey names every file produced for a lesson on a given day: YYYYMMDD_<chapter>_<part>
func ArtifactKey(day time.Time, lesson plan.Lesson) string {
	return fmt.Sprintf("%s_%s_%s", day.Format("20060102"), keyPart(lesson.Chapter.String()), keyPart(lesson.Part.String()))
}

// keyPart keeps identifiers safe for file names
func keyPart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '-'
	}, s)
}

// PresentationSlides wraps the generated body slides with the intro and outro slides
func PresentationSlides(ch config.ChannelConfig, lesson plan.Lesson, body []Slide) []Slide {
	slides := make([]Slide, 0, len(body)+2)
	slides = append(slides, Slide{
		Title:   lesson.Title,
		Content: fmt.Sprintf("Chapter %s | Part %s", lesson.Chapter, lesson.Part),
	})
	slides = append(slides, body...)
	outro := outroContent
	if ch.BrandHashtag != "" {
		outro += "\n" + ch.BrandHashtag
	}
	return append(slides, Slide{Title: outroTitle, Content: outro})
}

// LongScript is the long-form narration: intro, every body slide in order, then the call to action
func LongScript(ch config.ChannelConfig, title string, body []Slide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello and welcome to %s. I'm %s. In today's lesson, %s. ", ch.Series, ch.Presenter, title)
	contents := make([]string, 0, len(body))
	for _, s := range body {
		contents = append(contents, strings.TrimSpace(s.Content))
	}
	b.WriteString(strings.Join(contents, " "))
	b.WriteString(" Thanks for watching! If you found this helpful, make sure to subscribe to our channel and hit the like button.")
	return b.String()
}

// ShortHighlight is the trimmed highlight, or "<prefix>: <lesson title>" when the highlight is blank
func ShortHighlight(highlight, lessonTitle, prefix string) string {
	highlight = strings.TrimSpace(highlight)
	if highlight != "" {
		return highlight
	}
	return fmt.Sprintf("%s: %s", prefix, lessonTitle)
}

// ShortSlide is the single slide of the short-form video
func ShortSlide(ch config.ChannelConfig, highlight string) Slide {
	return Slide{
		Title:   shortSlideTitle,
		Content: fmt.Sprintf("%s\n\n#AI for developers by %s", highlight, ch.Presenter),
	}
}

// ShortTitle builds the short-form title: the highlight (or fallback) cut to maxLen characters,
// trailing whitespace removed, followed by " #Shorts". The result never exceeds the YouTube title limit.
func ShortTitle(highlight, lessonTitle, prefix string, maxLen int) string {
	limit := maxTitleLength - len(shortsSuffix)
	if maxLen <= 0 || maxLen > limit {
		maxLen = limit
	}
	base := truncateRunes(ShortHighlight(highlight, lessonTitle, prefix), maxLen)
	return strings.TrimRightFunc(base, unicode.IsSpace) + shortsSuffix
}

// LongTitle is the lesson title within the YouTube title limit
func LongTitle(title string) string {
	return strings.TrimSpace(truncateRunes(strings.TrimSpace(title), maxTitleLength))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Hashtags returns the generated hashtags, or fallback when none were generated
func Hashtags(generated, fallback string) string {
	if h := strings.TrimSpace(generated); h != "" {
		return h
	}
	return fallback
}

// LongDescription is the long-form video description
func LongDescription(ch config.ChannelConfig, title, hashtags string) string {
	return fmt.Sprintf("Part of the '%s' series by %s.\n\nToday's Lesson: %s\n\n%s", ch.Series, ch.Presenter, title, hashtags)
}

// LongTags are the fixed channel tags followed by every word of the title
func LongTags(title string) []string {
	raw := longTagsPrefix + ", " + strings.ReplaceAll(title, " ", ", ")
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ShortDescription links the short back to the published long-form video
func ShortDescription(ch config.ChannelConfig, longID string) string {
	return fmt.Sprintf("Watch the full lesson with %s here: %s%s\n\n%s", ch.Presenter, watchURL, longID, shortHashtags)
}

// ShortTags are the tags of every short-form upload
func ShortTags() []string {
	return append([]string(nil), shortTags...)
}
