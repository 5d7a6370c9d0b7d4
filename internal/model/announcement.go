package model

// Announcement colors used for in-room messages (0xRRGGBB)
const (
	ColorInfo    = 0x00BFFF
	ColorSuccess = 0x00FF00
	ColorWarning = 0xFFFF00
	ColorError   = 0xFF0000
	ColorGold    = 0xFFD700
	ColorOrange  = 0xFF8C00
	ColorMuted   = 0x888888
	ColorSilver  = 0xCCCCCC
)

// AnnouncementStyle is the text style hint passed to the platform
type AnnouncementStyle string

const (
	StyleNormal AnnouncementStyle = "normal"
	StyleBold   AnnouncementStyle = "bold"
	StyleItalic AnnouncementStyle = "italic"
	StyleSmall  AnnouncementStyle = "small"
)

// Announcement is an in-room message. Target 0 broadcasts to everyone.
type Announcement struct {
	Text   string
	Target SessionID
	Color  int
	Style  AnnouncementStyle
	Sound  int
}

// Broadcast builds an announcement for everyone in the room
func Broadcast(text string, color int, style AnnouncementStyle) Announcement {
	return Announcement{Text: text, Color: color, Style: style, Sound: 1}
}

// Private builds an announcement visible only to target
func Private(target SessionID, text string, color int) Announcement {
	return Announcement{Text: text, Target: target, Color: color, Style: StyleNormal, Sound: 1}
}
