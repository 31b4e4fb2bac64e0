package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"progression-service/internal/domain"
)

// CertificateRepository stores certificates with insert-if-absent semantics:
// the (user_id, course_id) primary key plus ON CONFLICT DO NOTHING means two
// concurrent issuance requests both end up reading the single row that won.
type CertificateRepository struct {
	db *bun.DB
}

func NewCertificateRepository(db *bun.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) GetByUserCourse(ctx context.Context, userID, courseID string) (domain.Certificate, bool, error) {
	var row certificateRow
	err := r.db.NewSelect().Model(&row).
		Where("user_id = ?", userID).
		Where("course_id = ?", courseID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Certificate{}, false, nil
	}
	if err != nil {
		return domain.Certificate{}, false, fmt.Errorf("get certificate: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CertificateRepository) GetByToken(ctx context.Context, token string) (domain.Certificate, bool, error) {
	var row certificateRow
	err := r.db.NewSelect().Model(&row).
		Where("verification_token = ?", token).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Certificate{}, false, nil
	}
	if err != nil {
		return domain.Certificate{}, false, fmt.Errorf("get certificate by token: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CertificateRepository) InsertIfAbsent(ctx context.Context, cert domain.Certificate) (domain.Certificate, error) {
	row := certificateRow{
		UserID:            cert.UserID,
		CourseID:          cert.CourseID,
		IssuedAt:          cert.IssuedAt,
		VerificationToken: cert.VerificationToken,
		CertificateNumber: cert.CertificateNumber,
		CertificateURL:    cert.CertificateURL,
		CompletionRate:    cert.CompletionRate,
	}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (user_id, course_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("insert certificate: %w", err)
	}

	// Read back whichever row won; on conflict that is the earlier insert.
	stored, ok, err := r.GetByUserCourse(ctx, cert.UserID, cert.CourseID)
	if err != nil {
		return domain.Certificate{}, err
	}
	if !ok {
		return domain.Certificate{}, fmt.Errorf("certificate row missing after insert: %w", domain.ErrStorageFailure)
	}
	return stored, nil
}
