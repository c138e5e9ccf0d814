// Package models contains domain types for the file analyzer.
package models

import "time"

// FileInfo represents metadata about a selected file held in storage.
type FileInfo struct {
	ID         string    `json:"id" msgpack:"id"`
	Name       string    `json:"name" msgpack:"name"`
	MimeType   string    `json:"mimeType" msgpack:"mimeType"`
	Size       int64     `json:"size" msgpack:"size"`
	UploadedAt time.Time `json:"uploadedAt" msgpack:"uploadedAt"`
	Status     string    `json:"status" msgpack:"status"` // "selected", "released"
}
