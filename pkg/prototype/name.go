package prototype

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kataras/figma-prototype/pkg/figma"
)

// ResolveName returns the display name of a frame, safe to use as an archive entry name.
// Path separators, characters rejected by common filesystems and control characters
// are replaced with an underscore; leading and trailing spaces and dots are trimmed.
// Names longer than MaxNameLength bytes are cut at a rune boundary. Other names
// without such characters are returned unchanged. When nothing is left the
// node ID is used instead, with its ':' and ';' separators turned into dashes.
func ResolveName(rawName, id string) string {
	name := cleanName(rawName, MaxNameLength)
	if name != "" {
		return name
	}

	name = cleanName(idSlug(id), MaxNameLength)
	if name == "" {
		return "frame"
	}
	return name
}

// MaxNameLength is the longest resolved name in bytes. It leaves room for a
// uniqueness suffix and a file extension under the usual 255 byte filename limit.
const MaxNameLength = 200

func cleanName(s string, max int) string {
	s = strings.Trim(strings.Map(sanitizeRune, s), " .")
	return strings.TrimRight(truncate(s, max), " .")
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

var idSeparators = strings.NewReplacer(":", "-", ";", "-")

func idSlug(id string) string {
	return idSeparators.Replace(id)
}

func sanitizeRune(r rune) rune {
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
		return '_'
	}
	if r < 0x20 || r == 0x7f {
		return '_'
	}
	return r
}

// ResolveFrameNames resolves the display name of every frame and makes them unique
// within the selection, ignoring case so archives extract cleanly on case-insensitive
// filesystems: the second and later frames sharing a name get the sanitized node ID
// appended, e.g. "Home-12-34". The result is index aligned with frames.
func ResolveFrameNames(frames []*figma.Node) []string {
	names := make([]string, len(frames))
	taken := make(map[string]bool, len(frames))

	for i, f := range frames {
		name := ResolveName(f.Name, f.ID)
		if taken[strings.ToLower(name)] {
			suffix := "-" + cleanName(idSlug(f.ID), MaxNameLength/2)
			base := truncate(name, MaxNameLength-len(suffix)) + suffix
			name = base
			for n := 2; taken[strings.ToLower(name)]; n++ {
				name = base + "-" + strconv.Itoa(n)
			}
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}

	return names
}
