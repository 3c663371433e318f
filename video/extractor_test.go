package video

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/gait/core"
)

func TestFFmpegExtractor(t *testing.T) {
	t.Run("writes the audio track and cleans up", func(t *testing.T) {
		dir := t.TempDir()
		videoPath := filepath.Join(dir, "lecture.mp4")
		require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))

		// Emulates ffmpeg by writing to the output path, the last argument.
		e := &FFmpegExtractor{Binary: stubTool(t, dir, "ffmpeg",
			`out=""
for a in "$@"; do out="$a"; done
echo audio > "$out"`)}

		audioPath, cleanup, err := e.Extract(context.Background(), videoPath)
		require.NoError(t, err)
		assert.Equal(t, "lecture.mp3", filepath.Base(audioPath))
		_, err = os.Stat(audioPath)
		require.NoError(t, err)

		cleanup()
		_, err = os.Stat(audioPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("a failing binary is an extraction error", func(t *testing.T) {
		dir := t.TempDir()
		videoPath := filepath.Join(dir, "broken.mp4")
		require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))

		e := &FFmpegExtractor{Binary: stubTool(t, dir, "ffmpeg",
			`echo "no audio track found" >&2; exit 1`)}

		_, _, err := e.Extract(context.Background(), videoPath)
		require.ErrorIs(t, err, core.ErrExtraction)
		assert.ErrorContains(t, err, "no audio track found")
	})

	t.Run("failure removes the temp directory", func(t *testing.T) {
		dir := t.TempDir()
		videoPath := filepath.Join(dir, "broken.mp4")
		require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))

		e := &FFmpegExtractor{Binary: stubTool(t, dir, "ffmpeg", "exit 1")}
		before, err := filepath.Glob(filepath.Join(os.TempDir(), "gait-audio-*"))
		require.NoError(t, err)

		_, _, err = e.Extract(context.Background(), videoPath)
		require.Error(t, err)

		after, globErr := filepath.Glob(filepath.Join(os.TempDir(), "gait-audio-*"))
		require.NoError(t, globErr)
		assert.Equal(t, before, after)
	})
}
