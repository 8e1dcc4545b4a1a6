package certificate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/storage/minio_storage"

	"github.com/google/uuid"
)

// ArtifactRenderer renders certificates into object storage and returns a
// presigned download URL.
type ArtifactRenderer struct {
	artifacts *minio_storage.CertificateStorage
}

func NewArtifactRenderer(artifacts *minio_storage.CertificateStorage) *ArtifactRenderer {
	return &ArtifactRenderer{artifacts: artifacts}
}

func (r *ArtifactRenderer) Render(ctx context.Context, learnerID, courseID, certificateID uuid.UUID) (string, error) {
	artifact, err := json.Marshal(map[string]interface{}{
		"certificate_id": certificateID,
		"learner_id":     learnerID,
		"course_id":      courseID,
		"rendered_at":    time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to build certificate artifact: %w", err)
	}

	objectKey, err := r.artifacts.UploadArtifact(ctx, certificateID, artifact, "application/json")
	if err != nil {
		return "", fmt.Errorf("failed to upload certificate artifact: %w", err)
	}
	return r.artifacts.ArtifactURL(ctx, objectKey)
}
