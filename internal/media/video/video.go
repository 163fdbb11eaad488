// Package video decodes Video objects with reisen.
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/cogentcore/reisen"

	"scene-editor/internal/media"
)

var _ media.Video = (*Clip)(nil)

// Clip decodes a video file on its own goroutine, paced at the stream frame rate,
// and rewinds at the end.
type Clip struct {
	media  *reisen.Media
	stream *reisen.VideoStream
	temp   string
	width  int
	height int
	frame  time.Duration

	mu     sync.Mutex
	latest *image.RGBA
	seq    uint64
	err    error

	cancel context.CancelFunc
	done   chan struct{}
}

// Open starts decoding data. The bytes are spooled to a temporary file since the
// decoder reads from a path; Close removes it.
func Open(data []byte) (*Clip, error) {
	f, err := os.CreateTemp("", "editor-video-*")
	if err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("video: %w", err)
	}
	c, err := OpenFile(f.Name())
	if err != nil {
		_ = os.Remove(f.Name())
		return nil, err
	}
	c.temp = f.Name()
	return c, nil
}

// OpenFile starts decoding the video at path.
func OpenFile(path string) (*Clip, error) {
	m, err := reisen.NewMedia(path)
	if err != nil {
		return nil, fmt.Errorf("video: open video: %w", err)
	}
	streams := m.VideoStreams()
	if len(streams) == 0 {
		m.Close()
		return nil, errors.New("video: no video stream")
	}
	if err := m.OpenDecode(); err != nil {
		m.Close()
		return nil, fmt.Errorf("video: decode: %w", err)
	}
	vs := streams[0]
	if err := vs.Open(); err != nil {
		_ = m.CloseDecode()
		m.Close()
		return nil, fmt.Errorf("video: video stream: %w", err)
	}
	num, den := vs.FrameRate()
	frame := time.Second / 30
	if num > 0 && den > 0 {
		frame = time.Duration(float64(time.Second) * float64(den) / float64(num))
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Clip{
		media:  m,
		stream: vs,
		width:  vs.Width(),
		height: vs.Height(),
		frame:  frame,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go c.run(ctx)
	return c, nil
}

func (c *Clip) run(ctx context.Context) {
	defer close(c.done)
	tick := time.NewTicker(c.frame)
	defer tick.Stop()
	for {
		img, err := c.next()
		if err != nil {
			c.mu.Lock()
			c.err = err
			c.mu.Unlock()
			return
		}
		if img != nil {
			c.mu.Lock()
			c.latest = img
			c.seq++
			c.mu.Unlock()
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// next returns the next decoded frame, rewinding once at end of stream.
func (c *Clip) next() (*image.RGBA, error) {
	rewound := false
	for {
		packet, ok, err := c.media.ReadPacket()
		if err != nil {
			return nil, err
		}
		if !ok {
			if rewound {
				return nil, errors.New("video: empty video")
			}
			if err := c.stream.Rewind(0); err != nil {
				return nil, err
			}
			rewound = true
			continue
		}
		if packet.Type() != reisen.StreamVideo || packet.StreamIndex() != c.stream.Index() {
			continue
		}
		vf, ok, err := c.stream.ReadVideoFrame()
		if err != nil {
			return nil, err
		}
		if ok && vf != nil {
			return vf.Image(), nil
		}
	}
}

func (c *Clip) Frame() (*image.RGBA, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.seq
}

func (c *Clip) Size() (int, int) { return c.width, c.height }

// Err reports the error that stopped decoding, if any.
func (c *Clip) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close stops the decoder goroutine and releases the file.
func (c *Clip) Close() error {
	c.cancel()
	<-c.done
	err := errors.Join(c.stream.Close(), c.media.CloseDecode())
	c.media.Close()
	if c.temp != "" {
		_ = os.Remove(c.temp)
	}
	return err
}
