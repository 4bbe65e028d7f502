package audio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// GetAudioDuration returns the duration of an audio file in whole seconds,
// using ffprobe.
func GetAudioDuration(filePath string) (int, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(durationFloat)), nil
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate string `json:"sample_rate"`
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

// Is16kHzWavFile reports whether the file is already a 16 kHz PCM wav, the
// input format the local whisper binary expects.
func Is16kHzWavFile(filePath string) (bool, error) {
	cmd := exec.Command("ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}
	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return false, err
	}
	for _, stream := range probe.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		return strings.HasPrefix(stream.CodecName, "pcm_") && stream.SampleRate == "16000", nil
	}
	return false, nil
}

// ConvertTo16kHzWav converts the input file to a 16 kHz mono wav next to the
// original and returns the new path.
func ConvertTo16kHzWav(filePath string) (string, error) {
	ext := filepath.Ext(filePath)
	outPath := strings.TrimSuffix(filePath, ext) + ".16k.wav"

	cmd := exec.Command("ffmpeg", "-y", "-i", filePath, "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}
	return outPath, nil
}
