// internal/services/signature.go
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

// SignatureVerifier produces and checks the tamper-evident hash stored with
// each digital signature. "Verified" here means the hash was computed over
// the canonical payload at capture time; recomputing it later and comparing
// against the stored value is how tampering with the evidence is detected.
type SignatureVerifier struct{}

func NewSignatureVerifier() *SignatureVerifier {
	return &SignatureVerifier{}
}

// ComputeHash hashes the canonical signature payload: image bytes, lease id,
// tenant id and the signing timestamp.
func (v *SignatureVerifier) ComputeHash(imageData []byte, leaseID, tenantID uuid.UUID, signedAt time.Time) string {
	hasher := sha256.New()
	hasher.Write(imageData)
	hasher.Write([]byte(leaseID.String()))
	hasher.Write([]byte(tenantID.String()))
	hasher.Write([]byte(fmt.Sprintf("%d", signedAt.UTC().Unix())))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Verify recomputes the hash from the stored evidence and compares it with
// the hash captured at signing time.
func (v *SignatureVerifier) Verify(signature *models.DigitalSignature, imageData []byte) bool {
	if signature == nil || signature.ContentHash == "" {
		return false
	}
	computed := v.ComputeHash(imageData, signature.LeaseID, signature.TenantID, signature.SignedAt)
	return computed == signature.ContentHash
}
