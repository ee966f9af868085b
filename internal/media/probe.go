package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Info describes a probed video.
type Info struct {
	Duration float64
	Width    int
	Height   int
}

type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads duration and pixel dimensions with ffprobe.
func Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe failed for '%s': %w", path, err)
	}

	return parseProbeOutput(output)
}

func parseProbeOutput(output []byte) (Info, error) {
	var parsed probeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return Info{}, fmt.Errorf("error parsing ffprobe output: %w", err)
	}
	if len(parsed.Streams) == 0 {
		return Info{}, fmt.Errorf("no video streams found")
	}

	duration, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil {
		return Info{}, fmt.Errorf("invalid duration %q: %w", parsed.Format.Duration, err)
	}

	return Info{
		Duration: duration,
		Width:    parsed.Streams[0].Width,
		Height:   parsed.Streams[0].Height,
	}, nil
}
