// Package video turns lecture recordings into stored transcripts.
//
// The pipeline shells out to ffmpeg to extract each video's audio track,
// carves the audio into upload-sized chunks, transcribes the chunks
// through the configured speech-to-text service with retry on rate limits,
// joins the surviving transcripts in order and hands the result to the
// ingestion sink. Videos are processed concurrently with per-video
// isolation: one failure is reported in the batch result and never aborts
// its siblings. All temporary audio artifacts live in scoped directories
// removed on every exit path.
package video
