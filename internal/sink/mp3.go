package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/gopxl/beep/v2"
	mp3 "github.com/llehouerou/go-mp3"
)

// mp3Streamer decodes an endless MP3 byte stream into beep samples. Radio
// streams have no length and no seeking; only Stream and Err apply.
type mp3Streamer struct {
	src     io.ReadCloser
	decoder *mp3.Decoder

	mu     sync.Mutex
	buf    [4096]byte
	err    error
	closed bool
}

func newMP3Streamer(src io.ReadCloser) (*mp3Streamer, beep.SampleRate, error) {
	decoder, err := mp3.NewDecoder(src)
	if err != nil {
		return nil, 0, fmt.Errorf("decode mp3 stream: %w", err)
	}
	return &mp3Streamer{src: src, decoder: decoder}, beep.SampleRate(decoder.SampleRate()), nil
}

// Stream fills samples with decoded audio. The decoder yields interleaved
// 16-bit little-endian stereo, 4 bytes per frame.
func (s *mp3Streamer) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.err != nil {
		return 0, false
	}

	filled := 0
	for filled < len(samples) {
		want := (len(samples) - filled) * 4
		if want > len(s.buf) {
			want = len(s.buf)
		}
		n, err := io.ReadFull(s.decoder, s.buf[:want])
		frames := n / 4
		for i := 0; i < frames; i++ {
			left := int16(s.buf[i*4]) | int16(s.buf[i*4+1])<<8
			right := int16(s.buf[i*4+2]) | int16(s.buf[i*4+3])<<8
			samples[filled+i][0] = float64(left) / 32768.0
			samples[filled+i][1] = float64(right) / 32768.0
		}
		filled += frames
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				s.err = err
			}
			return filled, filled > 0
		}
	}
	return filled, true
}

func (s *mp3Streamer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *mp3Streamer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}
