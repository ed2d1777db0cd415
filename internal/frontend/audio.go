package frontend

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// sampleStream adapts the APU's mono float32 sample buffer to ebiten's
// audio.Player, which wants a io.Reader of signed 16-bit little-endian
// stereo frames. Samples are pushed in from the game loop after every
// PPU frame and drained by ebiten's audio goroutine as it reads.
type sampleStream struct {
	mu      sync.Mutex
	pending []float32
	volume  float64
}

func newSampleStream(volume float64) *sampleStream {
	return &sampleStream{volume: volume}
}

// push appends freshly generated mono samples to the pending buffer.
func (s *sampleStream) push(samples []float32) {
	s.mu.Lock()
	s.pending = append(s.pending, samples...)
	s.mu.Unlock()
}

// Read implements io.Reader. Bytes come in 4-byte stereo frames (2
// bytes left, 2 bytes right); when no APU samples are pending yet it
// emits silence rather than blocking, so playback never stalls waiting
// on the emulation thread.
func (s *sampleStream) Read(buf []byte) (int, error) {
	frames := len(buf) / 4
	s.mu.Lock()
	defer s.mu.Unlock()

	n := frames
	if n > len(s.pending) {
		n = len(s.pending)
	}
	for i := 0; i < n; i++ {
		v := s.pending[i] * float32(s.volume)
		sample := int16(clampSample(v) * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(sample))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(sample))
	}
	for i := n * 4; i < frames*4; i++ {
		buf[i] = 0
	}
	s.pending = s.pending[n:]
	return frames * 4, nil
}

func clampSample(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// newPlayer builds an ebiten audio player streaming from the sample
// stream at the given context's sample rate.
func newPlayer(ctx *audio.Context, stream *sampleStream) (*audio.Player, error) {
	p, err := ctx.NewPlayer(stream)
	if err != nil {
		return nil, err
	}
	p.SetBufferSize(0)
	p.Play()
	return p, nil
}
