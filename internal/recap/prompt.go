package recap

import (
	"strings"
	"time"

	"moodjournal/internal/models"
)

const instructions = `Analyze these journal entries from the past week. Create a weekly mood recap.
Include:
- Overall emotional tone
- Key themes or patterns
- Wins or improvements
- One gentle suggestion for next week

Try to keep it concise and uplifting.

Entries:
`

// BuildPrompt renders entries with their local creation time, mood and text.
func BuildPrompt(entries []models.Entry, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	b.WriteString(instructions)
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Date: ")
		b.WriteString(e.CreatedAt.In(loc).Format(time.RFC1123))
		b.WriteString("\nMood: ")
		b.WriteString(string(e.Mood))
		b.WriteString("\nText: ")
		b.WriteString(e.Content)
		b.WriteString("\n")
	}
	return b.String()
}
