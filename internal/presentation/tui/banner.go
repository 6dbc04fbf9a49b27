package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"      _            _     _", "#4ade80"},
	{"   __| |_ __ _   _(_) __| | ___", "#22c55e"},
	{"  / _` | '__| | | | |/ _` |/ _ \\", "#16a34a"},
	{" | (_| | |  | |_| | | (_| |  __/", "#15803d"},
	{"  \\__,_|_|   \\__,_|_|\\__,_|\\___|", "#166534"},
}

// PrintBanner writes the druide ASCII art banner to w using profile for colour.
func PrintBanner(w io.Writer, profile termenv.Profile) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w)
}
