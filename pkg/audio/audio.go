package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Prober reads audio durations with ffprobe. It satisfies the
// ingestion service's AudioProcessor contract.
type Prober struct {
	ffprobePath string
}

// NewProber creates a prober using the given ffprobe binary, or
// "ffprobe" from PATH when empty.
func NewProber(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{ffprobePath: ffprobePath}
}

// ffprobeOutput is the slice of ffprobe's JSON output we care about
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Process returns the clip's duration in seconds
func (p *Prober) Process(ctx context.Context, audioRef string) (float64, error) {
	args := []string{
		"-v", "quiet",
		"-show_format",
		"-of", "json",
		audioRef,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("probing %s: %w (%s)", audioRef, err, stderr.String())
	}

	var output ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return 0, fmt.Errorf("parsing ffprobe output for %s: %w", audioRef, err)
	}
	if output.Format.Duration == "" {
		return 0, fmt.Errorf("no duration reported for %s", audioRef)
	}

	duration, err := strconv.ParseFloat(output.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration for %s: %w", audioRef, err)
	}
	return duration, nil
}
