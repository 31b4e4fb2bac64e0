package app

import (
	"context"
	"time"
)

// IssuedCertificate is the response shape for certificate issuance; calling
// issue twice returns identical values.
type IssuedCertificate struct {
	IssuedAt          time.Time `json:"issuedAt"`
	CertificateURL    string    `json:"certificateUrl"`
	VerificationURL   string    `json:"verificationUrl"`
	CertificateNumber string    `json:"certificateNumber"`
}

// CertificateProof is the public verification result for a token.
type CertificateProof struct {
	Valid             bool      `json:"valid"`
	RecipientName     string    `json:"recipientName,omitempty"`
	CourseTitle       string    `json:"courseTitle,omitempty"`
	CertificateNumber string    `json:"certificateNumber,omitempty"`
	IssuedAt          time.Time `json:"issuedAt,omitempty"`
}

// IssueCertificate issues (or returns the existing) certificate for the
// user's completed course.
func (s *ProgressionService) IssueCertificate(ctx context.Context, userID, courseID string) (IssuedCertificate, error) {
	cert, err := s.issuer.Issue(ctx, userID, courseID)
	if err != nil {
		return IssuedCertificate{}, err
	}
	return IssuedCertificate{
		IssuedAt:          cert.IssuedAt,
		CertificateURL:    cert.CertificateURL,
		VerificationURL:   s.issuer.VerificationURL(cert.VerificationToken),
		CertificateNumber: cert.CertificateNumber,
	}, nil
}

// VerifyCertificate resolves an opaque token to issuance metadata. An unknown
// token yields a plain invalid result; nothing about near-matches leaks.
func (s *ProgressionService) VerifyCertificate(ctx context.Context, token string) (CertificateProof, error) {
	cert, ok, err := s.issuer.Verify(ctx, token)
	if err != nil {
		return CertificateProof{}, err
	}
	if !ok {
		return CertificateProof{Valid: false}, nil
	}

	proof := CertificateProof{
		Valid:             true,
		CertificateNumber: cert.CertificateNumber,
		IssuedAt:          cert.IssuedAt,
	}
	if user, err := s.catalog.GetUser(ctx, cert.UserID); err == nil {
		proof.RecipientName = user.DisplayName
	}
	if course, err := s.catalog.GetCourse(ctx, cert.CourseID); err == nil {
		proof.CourseTitle = course.Title
	}
	return proof, nil
}
