package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"interview_prep_backend/internal/capture"
)

// ProviderOptions selects the local capture devices handed to ffmpeg.
// Zero values fall back to platform defaults.
type ProviderOptions struct {
	VideoDevice string // e.g. /dev/video0
	VideoFormat string // ffmpeg input format, e.g. v4l2
	AudioDevice string // e.g. "default"
	AudioFormat string // e.g. alsa
	Logger      *zap.Logger
}

func (o *ProviderOptions) applyDefaults() {
	if o.VideoDevice == "" {
		o.VideoDevice = "/dev/video0"
	}
	if o.VideoFormat == "" {
		o.VideoFormat = defaultVideoFormat()
	}
	if o.AudioDevice == "" {
		o.AudioDevice = "default"
	}
	if o.AudioFormat == "" {
		o.AudioFormat = defaultAudioFormat()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

func defaultVideoFormat() string {
	if runtime.GOOS == "darwin" {
		return "avfoundation"
	}
	return "v4l2"
}

func defaultAudioFormat() string {
	if runtime.GOOS == "darwin" {
		return "avfoundation"
	}
	return "alsa"
}

// Provider acquires local device streams for ffmpeg-based capture.
type Provider struct {
	opts ProviderOptions
	log  *zap.Logger
}

// NewProvider verifies the ffmpeg binary is reachable and returns a provider
// for the configured devices.
func NewProvider(opts ProviderOptions) (*Provider, error) {
	opts.applyDefaults()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg binary not found in PATH: %w", err)
	}
	return &Provider{opts: opts, log: opts.Logger}, nil
}

// AcquireStream checks the video device and returns a combined audio+video
// stream. A missing or unreadable video device is reported as an error so the
// caller can degrade to audio-only.
func (p *Provider) AcquireStream(ctx context.Context) (capture.Stream, error) {
	if _, err := os.Stat(p.opts.VideoDevice); err != nil {
		return nil, fmt.Errorf("video device %s unavailable: %w", p.opts.VideoDevice, err)
	}
	p.log.Debug("acquired combined stream",
		zap.String("video_device", p.opts.VideoDevice),
		zap.String("audio_device", p.opts.AudioDevice))
	return &DeviceStream{
		videoDevice: p.opts.VideoDevice,
		videoFormat: p.opts.VideoFormat,
		audioDevice: p.opts.AudioDevice,
		audioFormat: p.opts.AudioFormat,
	}, nil
}

// AcquireAudioStream returns a microphone-only stream.
func (p *Provider) AcquireAudioStream(ctx context.Context) (capture.Stream, error) {
	p.log.Debug("acquired audio-only stream", zap.String("audio_device", p.opts.AudioDevice))
	return &DeviceStream{
		audioOnly:   true,
		audioDevice: p.opts.AudioDevice,
		audioFormat: p.opts.AudioFormat,
	}, nil
}

// DeviceStream describes the ffmpeg inputs for one capture run. The encoder
// attaches its process so that Close can terminate capture even while
// recording is in flight.
type DeviceStream struct {
	audioOnly   bool
	videoDevice string
	videoFormat string
	audioDevice string
	audioFormat string

	mu     sync.Mutex
	proc   *os.Process
	closed bool
}

func (s *DeviceStream) AudioOnly() bool { return s.audioOnly }

func (s *DeviceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.proc != nil {
		return s.proc.Kill()
	}
	return nil
}

func (s *DeviceStream) attach(proc *os.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("stream already closed")
	}
	s.proc = proc
	return nil
}
