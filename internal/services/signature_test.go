// internal/services/signature_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

func TestComputeHashIsDeterministic(t *testing.T) {
	v := NewSignatureVerifier()

	image := []byte("signature-image-bytes")
	leaseID := uuid.New()
	tenantID := uuid.New()
	signedAt := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)

	first := v.ComputeHash(image, leaseID, tenantID, signedAt)
	second := v.ComputeHash(image, leaseID, tenantID, signedAt)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestComputeHashChangesWithAnyInput(t *testing.T) {
	v := NewSignatureVerifier()

	image := []byte("signature-image-bytes")
	leaseID := uuid.New()
	tenantID := uuid.New()
	signedAt := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)

	base := v.ComputeHash(image, leaseID, tenantID, signedAt)

	assert.NotEqual(t, base, v.ComputeHash([]byte("tampered"), leaseID, tenantID, signedAt))
	assert.NotEqual(t, base, v.ComputeHash(image, uuid.New(), tenantID, signedAt))
	assert.NotEqual(t, base, v.ComputeHash(image, leaseID, uuid.New(), signedAt))
	assert.NotEqual(t, base, v.ComputeHash(image, leaseID, tenantID, signedAt.Add(time.Second)))
}

func TestComputeHashIgnoresTimezoneRepresentation(t *testing.T) {
	v := NewSignatureVerifier()

	image := []byte("signature-image-bytes")
	leaseID := uuid.New()
	tenantID := uuid.New()
	utc := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("SAST", 2*60*60))

	assert.Equal(t,
		v.ComputeHash(image, leaseID, tenantID, utc),
		v.ComputeHash(image, leaseID, tenantID, local),
	)
}

func TestVerifySignature(t *testing.T) {
	v := NewSignatureVerifier()

	image := []byte("signature-image-bytes")
	leaseID := uuid.New()
	tenantID := uuid.New()
	signedAt := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)

	sig := &models.DigitalSignature{
		LeaseID:     leaseID,
		TenantID:    tenantID,
		SignedAt:    signedAt,
		ContentHash: v.ComputeHash(image, leaseID, tenantID, signedAt),
	}

	assert.True(t, v.Verify(sig, image))
	assert.False(t, v.Verify(sig, []byte("tampered")))

	sig.ContentHash = "0000000000000000000000000000000000000000000000000000000000000000"
	assert.False(t, v.Verify(sig, image))
}
