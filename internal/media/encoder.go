package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"interview_prep_backend/internal/capture"
)

// Encoder records a device stream into a WebM file through ffmpeg and hands
// the finalized bytes back on Stop. One encoder handles one capture run.
type Encoder struct {
	tmpDir string
	log    *zap.Logger

	cmd    *exec.Cmd
	stderr bytes.Buffer
	path   string
}

// NewEncoder writes intermediate recordings under tmpDir (os.TempDir when
// empty).
func NewEncoder(tmpDir string, log *zap.Logger) *Encoder {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Encoder{tmpDir: tmpDir, log: log}
}

// Start launches the ffmpeg capture process. chunkInterval bounds how long
// encoded data sits in the muxer before being flushed to disk, so a hard kill
// loses at most that much footage.
func (e *Encoder) Start(stream capture.Stream, chunkInterval time.Duration) error {
	ds, ok := stream.(*DeviceStream)
	if !ok {
		return fmt.Errorf("unsupported stream type %T", stream)
	}
	if e.cmd != nil {
		return fmt.Errorf("encoder already started")
	}

	f, err := os.CreateTemp(e.tmpDir, "capture-*.webm")
	if err != nil {
		return fmt.Errorf("failed to create temp recording: %w", err)
	}
	e.path = f.Name()
	f.Close()

	outArgs := ffmpeg.KwArgs{
		"c:a":           "libopus",
		"f":             "webm",
		"flush_packets": "1",
		"muxdelay":      fmt.Sprintf("%.3f", chunkInterval.Seconds()),
	}

	var out *ffmpeg.Stream
	if ds.audioOnly {
		in := ffmpeg.Input(ds.audioDevice, ffmpeg.KwArgs{"f": ds.audioFormat})
		out = in.Output(e.path, outArgs)
	} else {
		outArgs["c:v"] = "libvpx"
		outArgs["b:v"] = "1M"
		video := ffmpeg.Input(ds.videoDevice, ffmpeg.KwArgs{"f": ds.videoFormat})
		audio := ffmpeg.Input(ds.audioDevice, ffmpeg.KwArgs{"f": ds.audioFormat})
		out = ffmpeg.Output([]*ffmpeg.Stream{video, audio}, e.path, outArgs)
	}

	cmd := out.OverWriteOutput().Compile()
	cmd.Stderr = &e.stderr
	if err := cmd.Start(); err != nil {
		os.Remove(e.path)
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	if err := ds.attach(cmd.Process); err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		os.Remove(e.path)
		return err
	}
	e.cmd = cmd
	e.log.Debug("ffmpeg capture started", zap.String("path", e.path), zap.Bool("audio_only", ds.audioOnly))
	return nil
}

// Stop interrupts ffmpeg so it finalizes the container, then reads the file
// back. The temp file is removed before returning.
func (e *Encoder) Stop(ctx context.Context) ([]byte, error) {
	if e.cmd == nil {
		return nil, fmt.Errorf("encoder not started")
	}
	defer os.Remove(e.path)

	// SIGINT asks ffmpeg to flush and close the container cleanly.
	e.cmd.Process.Signal(os.Interrupt)

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case <-done:
		// ffmpeg reports a nonzero status when interrupted; the file on
		// disk is still finalized.
	case <-ctx.Done():
		e.cmd.Process.Kill()
		<-done
		return nil, ctx.Err()
	}

	blob, err := os.ReadFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w (ffmpeg: %s)", err, e.stderr.String())
	}
	if info, perr := ProbeRecording(e.path); perr == nil {
		e.log.Debug("recording finalized",
			zap.Float64("media_seconds", info.Duration),
			zap.Int64("bytes", info.Size))
	}
	return blob, nil
}
