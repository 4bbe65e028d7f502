package video

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"spaceworks/internal/app/audio"
	"spaceworks/internal/app/engine"
	"spaceworks/internal/app/model"
	"spaceworks/internal/app/spaces"
)

// Renderer turns a space's audio into a shareable waveform video with
// ffmpeg. Rendering is local and free; no ledger entry is produced.
type Renderer struct {
	locator *spaces.Locator
	workDir string
}

// NewRenderer creates a Renderer writing intermediate files under workDir.
func NewRenderer(locator *spaces.Locator, workDir string) *Renderer {
	return &Renderer{locator: locator, workDir: workDir}
}

// Run renders the waveform video for the job's space.
func (r *Renderer) Run(ctx context.Context, job *model.Job) (*engine.Outcome, error) {
	inputPath, err := r.locator.AudioPath(job.SpaceID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	// Deterministic output name, so re-rendering the same space needs the
	// overwrite option.
	outputPath := filepath.Join(r.workDir, job.SpaceID+".mp4")
	if _, err := os.Stat(outputPath); err == nil && !job.OptionBool(model.OptionOverwrite) {
		return nil, fmt.Errorf("output %s already exists and overwrite is not set", outputPath)
	}
	videoID := uuid.New().String()

	args := []string{
		"-y",
		"-i", inputPath,
		"-filter_complex", "[0:a]showwaves=s=1280x720:mode=line:colors=white[v]",
		"-map", "[v]", "-map", "0:a",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		outputPath,
	}

	log.Printf("rendering video for space %s -> %s\n", job.SpaceID, outputPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}

	duration, err := audio.GetAudioDuration(inputPath)
	if err != nil {
		duration = 0
	}

	return &engine.Outcome{
		Result: map[string]interface{}{
			"video_id": videoID,
			"path":     outputPath,
			"duration": duration,
		},
		ArtifactPath: outputPath,
	}, nil
}

// EstimatedDuration assumes encoding runs at about 4x realtime.
func (r *Renderer) EstimatedDuration(job *model.Job) float64 {
	inputPath, err := r.locator.AudioPath(job.SpaceID)
	if err != nil {
		return 180
	}
	seconds, err := audio.GetAudioDuration(inputPath)
	if err != nil || seconds <= 0 {
		return 180
	}
	return float64(seconds) / 4
}
