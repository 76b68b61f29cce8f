package sink

import (
	"net/url"
	"strings"
)

// IsAdaptiveURL reports whether a stream URL denotes a segmented/adaptive
// manifest rather than a progressive stream.
func IsAdaptiveURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.HasSuffix(raw, ".m3u8")
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".m3u8")
}

// GuessFormat infers the codec from a URL or segment name. Unknown formats
// are sniffed from the byte stream instead.
func GuessFormat(raw string) StreamFormat {
	u, err := url.Parse(raw)
	path := raw
	if err == nil {
		path = u.Path
	}
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".mp3"):
		return FormatMP3
	case strings.HasSuffix(strings.ToLower(path), ".aac"),
		strings.HasSuffix(strings.ToLower(path), ".adts"):
		return FormatAAC
	default:
		return FormatUnknown
	}
}

// FormatFromContentType maps an HTTP Content-Type to a stream format.
func FormatFromContentType(ct string) StreamFormat {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "mpeg"), strings.Contains(ct, "mp3"):
		return FormatMP3
	case strings.Contains(ct, "aac"):
		return FormatAAC
	default:
		return FormatUnknown
	}
}
