package ffmpeg

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// Prober reads media metadata through ffprobe
type Prober struct {
	logger      zerolog.Logger
	ffprobePath string
}

// New creates a prober using the given ffprobe binary name or path
func New(logger zerolog.Logger, binary string) (*Prober, error) {
	if binary == "" {
		binary = "ffprobe"
	}

	ffprobePath, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Prober{
		logger:      logger.With().Str("component", "ffprobe").Logger(),
		ffprobePath: ffprobePath,
	}, nil
}
