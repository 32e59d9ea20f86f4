//go:build ffmpeg

package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/reisen"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/matzehuels/collage/pkg/errors"
)

func init() {
	extraDecoders["video/"] = decodeVideo
}

const (
	speakerSampleRate beep.SampleRate = 44100
	sampleBufferSize                  = 64 * 1024
	defaultFrameDelay                 = time.Second / 30
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	return speakerErr
}

// VideoHandle decodes a video file with ffmpeg (via reisen) on a background
// goroutine, keeping only the most recent frame. Audio, when present, is
// mixed into the shared speaker behind a volume control so muting never
// interrupts decoding. Playback loops at end of stream.
type VideoHandle struct {
	name   string
	media  *reisen.Media
	video  *reisen.VideoStream
	audio  *reisen.AudioStream
	delay  time.Duration
	logger *log.Logger

	mu     sync.RWMutex
	frame  image.Image
	state  ReadyState
	muted  bool
	paused bool
	closed bool
	wake   chan struct{}

	samples chan [2]float64
	ctrl    *beep.Ctrl
	volume  *effects.Volume

	cancel context.CancelFunc
	done   chan struct{}
}

func decodeVideo(ctx context.Context, d Descriptor, _ string, logger *log.Logger) (Handle, error) {
	h, err := OpenVideo(ctx, d, logger)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// OpenVideo opens d.Ref for decoding and starts the decode loop.
func OpenVideo(ctx context.Context, d Descriptor, logger *log.Logger) (*VideoHandle, error) {
	if logger == nil {
		logger = log.Default()
	}
	m, err := reisen.NewMedia(d.Ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "open %s", d.DisplayName)
	}
	videos := m.VideoStreams()
	if len(videos) == 0 {
		m.Close()
		return nil, errors.New(errors.ErrCodeSourceUnreadable, "%s has no video stream", d.DisplayName)
	}
	if err := m.OpenDecode(); err != nil {
		m.Close()
		return nil, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "decode %s", d.DisplayName)
	}
	h := &VideoHandle{
		name:   d.DisplayName,
		media:  m,
		video:  videos[0],
		delay:  defaultFrameDelay,
		logger: logger,
		state:  HaveMetadata,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	if num, den := h.video.FrameRate(); num > 0 && den > 0 {
		h.delay = time.Duration(float64(time.Second) * float64(den) / float64(num))
	}
	if err := h.video.Open(); err != nil {
		h.release()
		return nil, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "open video stream of %s", d.DisplayName)
	}
	if audios := m.AudioStreams(); len(audios) > 0 {
		if err := audios[0].Open(); err == nil {
			h.audio = audios[0]
			h.startAudio()
		} else {
			logger.Debug("audio stream unavailable", "source", d.DisplayName, "err", err)
		}
	}

	decodeCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	go h.decodeLoop(decodeCtx)
	return h, nil
}

func (h *VideoHandle) startAudio() {
	if err := initSpeaker(); err != nil {
		h.logger.Warn("speaker unavailable, video will play silently", "err", err)
		return
	}
	h.samples = make(chan [2]float64, sampleBufferSize)
	h.ctrl = &beep.Ctrl{Streamer: h.sampleStreamer()}
	h.volume = &effects.Volume{Streamer: h.ctrl, Base: 2}
	speaker.Play(h.volume)
}

// sampleStreamer drains decoded samples without blocking the speaker; gaps
// are filled with silence.
func (h *VideoHandle) sampleStreamer() beep.Streamer {
	return beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		for i := range out {
			select {
			case s := <-h.samples:
				out[i] = s
			default:
				out[i] = [2]float64{}
			}
		}
		return len(out), true
	})
}

func (h *VideoHandle) decodeLoop(ctx context.Context) {
	defer close(h.done)
	next := time.Now()
	failures := newReadFailures(maxReadFailures)
	for {
		if ctx.Err() != nil {
			return
		}
		if h.Paused() {
			select {
			case <-ctx.Done():
				return
			case <-h.wake:
				next = time.Now()
				continue
			}
		}

		packet, ok, err := h.media.ReadPacket()
		if err != nil {
			if failures.fail() {
				h.logger.Warn("packet reads keep failing, stopping playback", "source", h.name, "err", err)
				return
			}
			h.logger.Debug("packet read failed", "source", h.name, "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(failures.delay()):
			}
			continue
		}
		failures.ok()
		if !ok {
			if err := h.video.Rewind(0); err != nil {
				h.logger.Warn("rewind failed, stopping playback", "source", h.name, "err", err)
				return
			}
			continue
		}

		switch packet.Type() {
		case reisen.StreamVideo:
			if s, ok := h.media.Streams()[packet.StreamIndex()].(*reisen.VideoStream); !ok || s != h.video {
				continue
			}
			frame, got, err := h.video.ReadVideoFrame()
			if err != nil || !got || frame == nil {
				continue
			}
			if wait := time.Until(next); wait > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(wait):
				}
			}
			next = next.Add(h.delay)
			h.present(frame.Image())

		case reisen.StreamAudio:
			if h.audio == nil || h.samples == nil {
				continue
			}
			if s, ok := h.media.Streams()[packet.StreamIndex()].(*reisen.AudioStream); !ok || s != h.audio {
				continue
			}
			frame, got, err := h.audio.ReadAudioFrame()
			if err != nil || !got || frame == nil {
				continue
			}
			h.queueSamples(frame.Data())
		}
	}
}

func (h *VideoHandle) present(img *image.RGBA) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.frame = img
	h.state = HaveEnoughData
}

// queueSamples splits interleaved little-endian float64 stereo samples.
// Samples are dropped when the speaker falls behind.
func (h *VideoHandle) queueSamples(data []byte) {
	r := bytes.NewReader(data)
	for r.Len() >= 16 {
		var s [2]float64
		if err := binary.Read(r, binary.LittleEndian, &s); err != nil {
			return
		}
		select {
		case h.samples <- s:
		default:
			return
		}
	}
}

func (h *VideoHandle) Frame() image.Image {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil
	}
	return h.frame
}

func (h *VideoHandle) ReadyState() ReadyState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return HaveNothing
	}
	return h.state
}

func (h *VideoHandle) Muted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.muted
}

// SetMuted silences the audio track without pausing decoding.
func (h *VideoHandle) SetMuted(muted bool) {
	h.mu.Lock()
	h.muted = muted
	h.mu.Unlock()
	if h.volume != nil {
		speaker.Lock()
		h.volume.Silent = muted
		speaker.Unlock()
	}
}

func (h *VideoHandle) Paused() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.paused
}

func (h *VideoHandle) SetPaused(paused bool) {
	h.mu.Lock()
	changed := h.paused != paused
	h.paused = paused
	h.mu.Unlock()
	if !changed {
		return
	}
	if h.ctrl != nil {
		speaker.Lock()
		h.ctrl.Paused = paused
		speaker.Unlock()
	}
	if !paused {
		select {
		case h.wake <- struct{}{}:
		default:
		}
	}
}

// Close stops the decode loop and releases ffmpeg resources.
func (h *VideoHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.frame = nil
	h.mu.Unlock()

	h.cancel()
	<-h.done
	if h.ctrl != nil {
		speaker.Lock()
		h.ctrl.Streamer = nil
		speaker.Unlock()
	}
	h.release()
	return nil
}

func (h *VideoHandle) release() {
	if h.audio != nil {
		h.audio.Close()
	}
	h.video.Close()
	h.media.CloseDecode()
	h.media.Close()
}

var _ Handle = (*VideoHandle)(nil)
