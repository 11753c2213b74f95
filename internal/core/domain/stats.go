package domain

import "time"

// BuildStats summarises one complete index build pass.
type BuildStats struct {
	// BuildID uniquely identifies the pass.
	BuildID string `json:"build_id"`

	// RootID is the repository container that was enumerated.
	RootID string `json:"root_id"`

	// DocumentsSeen is the total number of documents listed.
	DocumentsSeen int `json:"documents_seen"`

	// DocumentsIndexed is the number of documents whose chunks entered
	// the snapshot.
	DocumentsIndexed int `json:"documents_indexed"`

	// SkippedNoText counts documents with no extractable text
	// (unsupported type, extraction failure, or empty content).
	SkippedNoText int `json:"skipped_no_text"`

	// SkippedEmbedFailed counts documents discarded as a unit because
	// embedding one of their chunks failed.
	SkippedEmbedFailed int `json:"skipped_embed_failed"`

	// ChunksIndexed is the total number of chunks in the new snapshot.
	ChunksIndexed int `json:"chunks_indexed"`

	// StartedAt and FinishedAt bound the pass.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// BuildStatus reports the index lifecycle state.
type BuildStatus struct {
	// Exists is true once a snapshot has been installed.
	Exists bool `json:"exists"`

	// BuiltAt is when the active snapshot was installed, zero when none.
	BuiltAt time.Time `json:"built_at,omitzero"`

	// ChunkCount is the size of the active snapshot.
	ChunkCount int `json:"chunk_count"`

	// InProgress is true while a build pass is running.
	InProgress bool `json:"in_progress"`
}
