package style

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

//go:embed persona.md
var persona string

const notProvided = "Not provided"

// Notes appended to a reply to describe what happened to its pictures.
const (
	NoteImageReady   = "\n\n## 🎨 Visual Showcase\nI've generated a visual representation of this outfit for you! The image shows exactly what I described above."
	NoteImageMissing = "\n\n## 💡 Visualization Tip\nWhile I couldn't generate an image this time, imagine the outfit combinations I described above - they'll create exactly the stylish look you're going for!"
	NoteImageFailed  = "\n\n## 💡 Styling Visualization\nUse the detailed descriptions above to visualize these amazing outfit combinations - each piece works together to create your perfect look!"
	NoteTryOnReady   = "\n\n## 👗 Virtual Try-On Result\nHere's how this outfit would look on you! The virtual try-on shows the styling in action."
	NoteTryOnFailed  = "\n\n## ⚠️ Virtual Try-On Note\nI couldn't generate the virtual try-on this time, but the styling advice above will help you visualize the look!"
)

// EmptyReply stands in for a completion that came back without text.
const EmptyReply = "Sorry, I couldn't generate a response."

// SystemPrompt returns the stylist persona, followed by a profile block when
// p is not nil.
func SystemPrompt(p *domain.UserProfile) string {
	base := strings.TrimSpace(persona)
	if p == nil {
		return base
	}
	return base + "\n\nUser Profile Information:\n" + strings.Join(ProfileLines(p), "\n")
}

// ProfileLines renders the five profile fields the stylist sees. Blank or
// zero values read "Not provided".
func ProfileLines(p *domain.UserProfile) []string {
	return []string{
		"- Name: " + orNotProvided(p.FullName),
		"- Height: " + number(p.Height) + " cm",
		"- Weight: " + number(p.Weight) + " kg",
		"- Body Type: " + orNotProvided(p.BodyType),
		"- Skin Tone: " + orNotProvided(p.SkinTone),
	}
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func number(f *float64) string {
	if f == nil || *f == 0 {
		return notProvided
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
