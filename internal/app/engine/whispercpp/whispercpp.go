package whispercpp

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"os/exec"

	"github.com/google/uuid"

	"spaceworks/internal/app/audio"
	"spaceworks/internal/app/engine"
	"spaceworks/internal/app/model"
	"spaceworks/internal/app/spaces"
)

// Transcriber runs transcription with a local whisper.cpp binary. Local
// engines are free: the outcome carries no usage and the ledger is never
// consulted for them.
type Transcriber struct {
	binaryPath string
	modelDir   string
	locator    *spaces.Locator
}

// NewTranscriber creates a local Transcriber. modelDir holds ggml model
// files named ggml-<model>.bin.
func NewTranscriber(binaryPath, modelDir string, locator *spaces.Locator) *Transcriber {
	return &Transcriber{binaryPath: binaryPath, modelDir: modelDir, locator: locator}
}

// Run transcribes the job's space audio with the local binary.
func (t *Transcriber) Run(ctx context.Context, job *model.Job) (*engine.Outcome, error) {
	inputPath, err := t.locator.AudioPath(job.SpaceID)
	if err != nil {
		return nil, err
	}

	is16k, err := audio.Is16kHzWavFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error checking input file: %w", err)
	}
	if !is16k {
		inputPath, err = audio.ConvertTo16kHzWav(inputPath)
		if err != nil {
			return nil, fmt.Errorf("error converting input file: %w", err)
		}
	}

	modelName := job.OptionString(model.OptionModel)
	if modelName == "" {
		modelName = "base"
	}
	modelPath := filepath.Join(t.modelDir, fmt.Sprintf("ggml-%s.bin", modelName))
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whisper model %s not found: %w", modelName, err)
	}

	outputBase := filepath.Join(os.TempDir(), "spaceworks-"+job.ID)
	args := []string{
		"-m", modelPath,
		"-otxt",
		"-f", inputPath,
		"-of", outputBase,
	}
	if lang := job.OptionString(model.OptionLanguage); lang != "" {
		args = append(args, "-l", lang)
	}

	log.Printf("running local transcription: %s %s\n", t.binaryPath, strings.Join(args, " "))
	command := exec.CommandContext(ctx, t.binaryPath, args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return nil, fmt.Errorf("command execution error: %v, stderr: %s", err, stderr.String())
	}

	outputFile := outputBase + ".txt"
	defer os.Remove(outputFile)
	data, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}

	return &engine.Outcome{
		Result: map[string]interface{}{
			"transcript_id": uuid.New().String(),
			"text":          strings.TrimSpace(string(data)),
			"language":      job.OptionString(model.OptionLanguage),
			"engine":        "whisper.cpp",
			"model":         modelName,
		},
	}, nil
}

// EstimatedDuration assumes the local binary runs at roughly realtime.
func (t *Transcriber) EstimatedDuration(job *model.Job) float64 {
	inputPath, err := t.locator.AudioPath(job.SpaceID)
	if err != nil {
		return 300
	}
	seconds, err := audio.GetAudioDuration(inputPath)
	if err != nil || seconds <= 0 {
		return 300
	}
	return float64(seconds)
}
