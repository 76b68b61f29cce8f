package sink

import (
	"bufio"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// mediaPlaylist is a parsed HLS media playlist. Live playlists are
// re-fetched; the media sequence number identifies segments across refreshes.
type mediaPlaylist struct {
	TargetDuration float64
	MediaSequence  int
	Ended          bool
	Segments       []segment
}

// segment is one media segment of a playlist.
type segment struct {
	URI      string
	Duration float64
	Sequence int
}

// errMasterPlaylist signals that the document is a multi-variant playlist
// and the caller should descend into a variant.
var errMasterPlaylist = errors.New("master playlist")

// parsePlaylist parses an HLS playlist document. For master playlists it
// returns errMasterPlaylist together with the variant URIs in document
// order; for media playlists it returns the parsed playlist.
func parsePlaylist(body string) (mediaPlaylist, []string, error) {
	sc := bufio.NewScanner(strings.NewReader(body))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "#EXTM3U" {
		return mediaPlaylist{}, nil, errors.New("not an m3u8 playlist")
	}

	var (
		pl       mediaPlaylist
		variants []string
		duration float64
		isMaster bool
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF"):
			isMaster = true
		case strings.HasPrefix(line, "#EXT-X-TARGETDURATION:"):
			pl.TargetDuration, _ = strconv.ParseFloat(line[len("#EXT-X-TARGETDURATION:"):], 64)
		case strings.HasPrefix(line, "#EXT-X-MEDIA-SEQUENCE:"):
			pl.MediaSequence, _ = strconv.Atoi(line[len("#EXT-X-MEDIA-SEQUENCE:"):])
		case line == "#EXT-X-ENDLIST":
			pl.Ended = true
		case strings.HasPrefix(line, "#EXTINF:"):
			value := strings.SplitN(line[len("#EXTINF:"):], ",", 2)[0]
			duration, _ = strconv.ParseFloat(value, 64)
		case strings.HasPrefix(line, "#"):
			// Unrecognized tags are skipped.
		default:
			if isMaster {
				variants = append(variants, line)
				continue
			}
			pl.Segments = append(pl.Segments, segment{
				URI:      line,
				Duration: duration,
				Sequence: pl.MediaSequence + len(pl.Segments),
			})
			duration = 0
		}
	}
	if err := sc.Err(); err != nil {
		return mediaPlaylist{}, nil, err
	}
	if isMaster {
		if len(variants) == 0 {
			return mediaPlaylist{}, nil, errors.New("master playlist without variants")
		}
		return mediaPlaylist{}, variants, errMasterPlaylist
	}
	return pl, nil, nil
}

// resolveRef resolves a possibly relative playlist or segment URI against
// the document it came from.
func resolveRef(base, ref string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}
