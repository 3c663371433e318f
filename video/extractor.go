// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/poiesic/gait/core"
)

// AudioExtractor pulls the audio track out of a video file. The returned
// cleanup function removes the extracted file and must be called on every
// path once the audio is no longer needed.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath string) (audioPath string, cleanup func(), err error)
}

// FFmpegExtractor extracts audio by shelling out to ffmpeg.
type FFmpegExtractor struct {
	// Binary overrides the ffmpeg executable name. Empty means "ffmpeg"
	// from PATH.
	Binary string
}

var _ AudioExtractor = (*FFmpegExtractor)(nil)

// Extract writes the audio track of videoPath to a scoped temporary
// directory as mp3 and returns its path. Failures wrap
// core.ErrExtraction with ffmpeg's stderr output.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoPath string) (string, func(), error) {
	binary := e.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	dir, err := os.MkdirTemp("", "gait-audio-*")
	if err != nil {
		return "", nil, fmt.Errorf("%w: creating temp dir: %v", core.ErrExtraction, err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(dir, base+".mp3")

	cmd := exec.CommandContext(ctx, binary,
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "4",
		"-y",
		audioPath)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: ffmpeg on %s: %v: %s",
			core.ErrExtraction, videoPath, err, tail(stderr.String(), 512))
	}

	return audioPath, cleanup, nil
}

// tail returns at most the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[len(s)-n:])
}
