package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gopxl/beep/v2"
	faad2 "github.com/llehouerou/go-faad2"
)

// adtsSampleRates maps the ADTS sampling frequency index to Hz.
var adtsSampleRates = [13]int{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

// adtsHeader holds the fields of one ADTS frame header needed for decoding.
type adtsHeader struct {
	profile       byte
	rateIndex     byte
	channelConfig byte
	headerLen     int
	frameLen      int
}

// parseADTSHeader validates and decodes a 7-byte ADTS header prefix.
func parseADTSHeader(b []byte) (adtsHeader, error) {
	if len(b) < 7 {
		return adtsHeader{}, errors.New("adts header truncated")
	}
	if b[0] != 0xFF || b[1]&0xF6 != 0xF0 {
		return adtsHeader{}, errors.New("adts syncword not found")
	}
	h := adtsHeader{
		profile:       b[2] >> 6,
		rateIndex:     (b[2] >> 2) & 0x0F,
		channelConfig: (b[2]&0x01)<<2 | b[3]>>6,
		headerLen:     7,
		frameLen:      int(b[3]&0x03)<<11 | int(b[4])<<3 | int(b[5])>>5,
	}
	if b[1]&0x01 == 0 {
		// CRC present.
		h.headerLen = 9
	}
	if int(h.rateIndex) >= len(adtsSampleRates) {
		return adtsHeader{}, fmt.Errorf("adts sample rate index %d out of range", h.rateIndex)
	}
	if h.frameLen < h.headerLen {
		return adtsHeader{}, fmt.Errorf("adts frame length %d shorter than header", h.frameLen)
	}
	return h, nil
}

// audioSpecificConfig builds the 2-byte decoder config from ADTS fields.
// The object type is the ADTS profile plus one.
func audioSpecificConfig(h adtsHeader) []byte {
	objType := h.profile + 1
	return []byte{
		objType<<3 | h.rateIndex>>1,
		h.rateIndex<<7 | h.channelConfig<<3,
	}
}

// adtsStreamer decodes an endless ADTS-framed AAC stream into beep samples.
type adtsStreamer struct {
	src     io.ReadCloser
	r       *bufio.Reader
	decoder *faad2.Decoder

	channels int

	mu      sync.Mutex
	pending []int16
	frame   []byte
	err     error
	drained bool
	closed  bool
}

// newADTSStreamer syncs on the first ADTS frame, initializes the decoder
// from its header and reports the stream's sample rate.
func newADTSStreamer(src io.ReadCloser) (*adtsStreamer, beep.SampleRate, error) {
	r := bufio.NewReaderSize(src, 32*1024)

	h, err := syncADTS(r)
	if err != nil {
		return nil, 0, fmt.Errorf("sync aac stream: %w", err)
	}

	ctx := context.Background()
	decoder, err := faad2.NewDecoder(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("create aac decoder: %w", err)
	}
	if err := decoder.Init(ctx, audioSpecificConfig(h)); err != nil {
		decoder.Close(ctx)
		return nil, 0, fmt.Errorf("initialize aac decoder: %w", err)
	}

	channels := int(h.channelConfig)
	if channels == 0 || channels > 2 {
		channels = 2
	}

	return &adtsStreamer{
		src:      src,
		r:        r,
		decoder:  decoder,
		channels: channels,
	}, beep.SampleRate(adtsSampleRates[h.rateIndex]), nil
}

// syncADTS scans the stream for the next valid ADTS header without
// consuming past it. Junk before the first frame (ICY preambles, partial
// frames after a reconnect) is discarded byte by byte.
func syncADTS(r *bufio.Reader) (adtsHeader, error) {
	for {
		b, err := r.Peek(7)
		if err != nil {
			return adtsHeader{}, err
		}
		h, err := parseADTSHeader(b)
		if err == nil {
			return h, nil
		}
		if _, err := r.Discard(1); err != nil {
			return adtsHeader{}, err
		}
	}
}

// Stream fills samples with decoded audio, pulling ADTS frames as needed.
func (s *adtsStreamer) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, false
	}

	filled := 0
	for filled < len(samples) {
		if len(s.pending) < s.channels {
			if s.err != nil || s.drained {
				return filled, filled > 0
			}
			if err := s.decodeFrameLocked(); err != nil {
				if err != io.EOF && err != io.ErrUnexpectedEOF {
					s.err = err
				} else {
					s.drained = true
				}
				return filled, filled > 0
			}
			continue
		}
		if s.channels == 1 {
			v := float64(s.pending[0]) / 32768.0
			samples[filled][0] = v
			samples[filled][1] = v
			s.pending = s.pending[1:]
		} else {
			samples[filled][0] = float64(s.pending[0]) / 32768.0
			samples[filled][1] = float64(s.pending[1]) / 32768.0
			s.pending = s.pending[2:]
		}
		filled++
	}
	return filled, true
}

// decodeFrameLocked reads one ADTS frame and appends its PCM to pending.
func (s *adtsStreamer) decodeFrameLocked() error {
	h, err := syncADTS(s.r)
	if err != nil {
		return err
	}
	if cap(s.frame) < h.frameLen {
		s.frame = make([]byte, h.frameLen)
	}
	s.frame = s.frame[:h.frameLen]
	if _, err := io.ReadFull(s.r, s.frame); err != nil {
		return err
	}

	pcm, err := s.decoder.Decode(context.Background(), s.frame[h.headerLen:])
	if err != nil {
		// A single corrupt frame should not kill a live stream.
		return nil
	}
	s.pending = append(s.pending, pcm...)
	return nil
}

func (s *adtsStreamer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *adtsStreamer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.decoder.Close(context.Background())
	return s.src.Close()
}
