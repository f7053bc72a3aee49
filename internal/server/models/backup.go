package models

import (
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/models"
)

// Backup is the document uploaded to object storage by a snapshot. Secrets
// stay in their stored (encoded) form.
type Backup struct {
	Version     int                 `json:"version"`
	UserID      string              `json:"user_id"`
	CreatedAt   time.Time           `json:"created_at"`
	Credentials []models.Credential `json:"credentials"`
}

// BackupInfo describes an uploaded snapshot.
type BackupInfo struct {
	Key         string    `json:"key"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at"`
	DownloadURL string    `json:"download_url,omitempty"`
}
