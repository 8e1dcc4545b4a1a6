package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CertificateIssued  = "issued"
	CertificatePending = "pending"

	IssuedBySystem = "system"
)

// CertificateRecord exists at most once per (learner, course). Pending means
// the record won the issuance race but the render artifact is not ready yet.
type CertificateRecord struct {
	CertificateID uuid.UUID `json:"certificate_id"`
	LearnerID     uuid.UUID `json:"learner_id"`
	CourseID      uuid.UUID `json:"course_id"`
	Status        string    `json:"status"`
	IssuedAt      time.Time `json:"issued_at"`
	IssuedBy      string    `json:"issued_by"`
	RenderedURL   string    `json:"rendered_url,omitempty"`
}
