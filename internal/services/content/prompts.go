package content

import (
	"fmt"

	"github.com/gnzdotmx/lessonflowai/internal/config"
)

func curriculumPrompt(series string, size int) string {
	return fmt.Sprintf(`You are planning the YouTube course %q: daily lessons that teach software developers how to build with AI.

Design a curriculum of exactly %d lessons, from fundamentals to advanced practice, grouped into chapters.
Each lesson must be a single focused topic that can be explained in a 5-minute video.

Return only valid JSON with this shape:
{
  "lessons": [
    {"chapter": 1, "part": 1, "title": "..."}
  ]
}
Chapters and parts are numbered from 1. Keep titles under 80 characters.`, series, size)
}

func lessonPrompt(ch config.ChannelConfig, title string) string {
	return fmt.Sprintf(`You are %s, a software engineer presenting the YouTube series %q for developers.

Write the content of today's lesson: %q.

Return only valid JSON with these fields:
- "long_form_slides": an array of 4 to 6 slides, each {"title": "...", "content": "..."}. The content of every slide is read aloud as narration, 2-4 sentences with concrete technical detail and examples.
- "short_form_highlight": one punchy sentence under 90 characters with the single most useful takeaway, suitable for a YouTube Short.
- "hashtags": a string of 3 to 6 relevant hashtags separated by spaces, for example "#AI #LLM #Python".

Do not use markdown inside the JSON values.`, ch.Presenter, ch.Series, title)
}
