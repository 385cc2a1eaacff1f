package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// getTestDataPath returns the path to testdata from project root
func getTestDataPath(filename string) string {
	return filepath.Join("..", "..", "testdata", filename)
}

// skipIfNoFFprobe skips the test if ffprobe is not available
func skipIfNoFFprobe(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

const sampleProbe = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 320, "height": 240, "r_frame_rate": "30/1"},
    {"codec_type": "audio", "codec_name": "aac"},
    {"codec_type": "video", "codec_name": "mjpeg", "width": 600, "height": 600, "r_frame_rate": "90000/1"}
  ],
  "format": {"duration": "65.432000", "bit_rate": "512000"}
}`

func TestParseProbe(t *testing.T) {
	info, err := parseProbe("clip.mp4", []byte(sampleProbe))
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}

	if info.Duration != 65432*time.Millisecond {
		t.Errorf("expected duration 65.432s, got %v", info.Duration)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", info.Width, info.Height)
	}
	if info.VideoCodec != "h264" {
		t.Errorf("expected first video stream, got %q", info.VideoCodec)
	}
	if info.FPS != 30 {
		t.Errorf("expected 30 fps, got %f", info.FPS)
	}
	if !info.HasAudio || info.AudioCodec != "aac" {
		t.Errorf("expected aac audio, got %v %q", info.HasAudio, info.AudioCodec)
	}
	if info.Bitrate != 512000 {
		t.Errorf("expected bitrate 512000, got %d", info.Bitrate)
	}
}

func TestParseProbeAudioOnly(t *testing.T) {
	info, err := parseProbe("song.flac", []byte(`{"streams":[{"codec_type":"audio","codec_name":"flac"}],"format":{"duration":"201.5"}}`))
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.HasVideo() {
		t.Error("audio file should have no video")
	}
	if info.Duration != 201500*time.Millisecond {
		t.Errorf("unexpected duration %v", info.Duration)
	}
}

func TestParseProbeInvalid(t *testing.T) {
	if _, err := parseProbe("x", []byte("not json")); err == nil {
		t.Error("expected error for invalid output")
	}
}

func TestProbe(t *testing.T) {
	skipIfNoFFprobe(t)

	testVideoPath := getTestDataPath("test.mp4")
	if _, err := os.Stat(testVideoPath); os.IsNotExist(err) {
		t.Skipf("test video not found at %s", testVideoPath)
	}

	p, err := New(zerolog.New(os.Stderr), "")
	if err != nil {
		t.Fatalf("failed to create prober: %v", err)
	}

	info, err := p.Probe(context.Background(), testVideoPath)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Duration == 0 {
		t.Error("duration is zero")
	}
	t.Logf("Media info: %dx%d, %.2f fps, duration: %v", info.Width, info.Height, info.FPS, info.Duration)
}

func TestProbeRequiresPath(t *testing.T) {
	skipIfNoFFprobe(t)

	p, err := New(zerolog.Nop(), "ffprobe")
	if err != nil {
		t.Fatalf("failed to create prober: %v", err)
	}
	if _, err := p.Probe(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}
