package main

import (
	"fmt"
	"time"

	"github.com/file-analyzer/backend/internal/storage"
	"github.com/file-analyzer/backend/internal/submission"
)

// orphanGrace covers the gap between a file being saved and its surface
// recording it.
const orphanGrace = time.Minute

// cleanup drops surfaces idle for longer than maxAge, then deletes stored
// files that no surface refers to anymore.
func cleanup(store storage.Store, surfaces *submission.Manager, maxAge time.Duration) {
	removed := surfaces.CleanupIdle(maxAge)
	for _, s := range removed {
		if fileID := s.Select(nil, ""); fileID != "" {
			if err := store.Delete(fileID); err != nil {
				fmt.Printf("[Cleanup] Warning: failed to delete %s: %v\n", fileID, err)
			}
		}
	}
	if len(removed) > 0 {
		fmt.Printf("[Cleanup] Removed %d idle surfaces\n", len(removed))
	}

	if n := sweepOrphans(store, surfaces, orphanGrace); n > 0 {
		fmt.Printf("[Cleanup] Deleted %d orphaned files\n", n)
	}
}

// sweepOrphans deletes stored files older than grace that back no selection.
// A selection whose surface vanished mid-request leaves such a file behind.
func sweepOrphans(store storage.Store, surfaces *submission.Manager, grace time.Duration) int {
	files, err := store.List(0)
	if err != nil {
		fmt.Printf("[Cleanup] Warning: failed to list files: %v\n", err)
		return 0
	}

	live := surfaces.FileIDs()
	cutoff := time.Now().Add(-grace)
	deleted := 0
	for _, f := range files {
		if live[f.ID] || f.UploadedAt.After(cutoff) {
			continue
		}
		if err := store.Delete(f.ID); err != nil {
			fmt.Printf("[Cleanup] Warning: failed to delete %s: %v\n", f.ID, err)
			continue
		}
		deleted++
	}
	return deleted
}
