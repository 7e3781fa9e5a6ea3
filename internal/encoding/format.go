package encoding

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lottie2video/internal/services"
)

// Format is an output container.
type Format string

const (
	FormatGIF  Format = "gif"
	FormatAPNG Format = "apng"
	FormatWebM Format = "webm"
	FormatWebP Format = "webp"
	FormatMP4  Format = "mp4"
)

var allFormats = []Format{FormatGIF, FormatAPNG, FormatWebM, FormatWebP, FormatMP4}

// FormatNames joins the supported formats for help and error text.
func FormatNames() string {
	names := make([]string, len(allFormats))
	for i, f := range allFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(value string) (Format, error) {
	candidate := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, f := range allFormats {
		if f == candidate {
			return f, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, "encoding", "format",
		fmt.Sprintf("unknown format %q (expected one of %s)", value, FormatNames()), nil)
}

// Label is the upper-case display name used in progress output.
func (f Format) Label() string {
	return cases.Upper(language.Und).String(string(f))
}

// Extension is the output file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}
