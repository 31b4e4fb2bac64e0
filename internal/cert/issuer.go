// Package cert issues and verifies course completion certificates.
package cert

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"progression-service/internal/domain"
	"progression-service/internal/progress"
	"progression-service/internal/storage"
)

// tokenBytes gives ~192 bits of entropy, above the 20-byte floor the
// verification surface requires.
const tokenBytes = 24

// Repository stores certificates keyed by (user, course). InsertIfAbsent must
// be atomic against concurrent issuance: if a row already exists it returns
// the stored row, never overwrites token or number.
type Repository interface {
	GetByUserCourse(ctx context.Context, userID, courseID string) (domain.Certificate, bool, error)
	GetByToken(ctx context.Context, token string) (domain.Certificate, bool, error)
	InsertIfAbsent(ctx context.Context, cert domain.Certificate) (domain.Certificate, error)
}

// Catalog resolves the recipient and course referenced on the document.
type Catalog interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	ListCourseModuleIDs(ctx context.Context, courseID string) ([]string, error)
}

// ProgressReader supplies the completion rows the eligibility check runs over.
type ProgressReader interface {
	ListModuleProgress(ctx context.Context, userID string, moduleIDs []string) ([]domain.ModuleProgress, error)
}

// Issuer creates certificate artifacts idempotently and verifies tokens.
type Issuer struct {
	certs     Repository
	catalog   Catalog
	progress  ProgressReader
	blobs     storage.BlobStore
	verifyURL string
	now       func() time.Time
	log       *zap.Logger
}

func NewIssuer(certs Repository, catalog Catalog, progressRows ProgressReader, blobs storage.BlobStore, verifyURL string, log *zap.Logger) *Issuer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Issuer{
		certs:     certs,
		catalog:   catalog,
		progress:  progressRows,
		blobs:     blobs,
		verifyURL: strings.TrimRight(verifyURL, "/"),
		now:       time.Now,
		log:       log,
	}
}

// WithClock is test-only for deterministic issuance timestamps.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue returns the certificate for (user, course), creating it on first
// call. The course must have at least one module and all of them completed by
// the user, otherwise ErrNotEligible. Repeated and concurrent calls converge
// on the same stored token and number.
func (i *Issuer) Issue(ctx context.Context, userID, courseID string) (domain.Certificate, error) {
	if existing, ok, err := i.certs.GetByUserCourse(ctx, userID, courseID); err != nil {
		return domain.Certificate{}, err
	} else if ok && existing.VerificationToken != "" && existing.CertificateURL != "" {
		return existing, nil
	}

	moduleIDs, err := i.catalog.ListCourseModuleIDs(ctx, courseID)
	if err != nil {
		return domain.Certificate{}, err
	}
	rows, err := i.progress.ListModuleProgress(ctx, userID, moduleIDs)
	if err != nil {
		return domain.Certificate{}, err
	}
	completed := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Completed {
			completed[row.ModuleID] = true
		}
	}
	if !progress.IsCourseComplete(moduleIDs, completed) {
		return domain.Certificate{}, fmt.Errorf("course %s not completed by %s: %w", courseID, userID, domain.ErrNotEligible)
	}

	user, err := i.catalog.GetUser(ctx, userID)
	if err != nil {
		return domain.Certificate{}, err
	}
	course, err := i.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return domain.Certificate{}, err
	}

	now := i.now().UTC()
	token, err := newToken()
	if err != nil {
		return domain.Certificate{}, err
	}
	number, err := newNumber(now)
	if err != nil {
		return domain.Certificate{}, err
	}

	doc := renderDocument(user.DisplayName, course.Title, number, now, i.VerificationURL(token))
	docURL := i.storeDocument(ctx, userID, courseID, doc)

	cert := domain.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		IssuedAt:          now,
		VerificationToken: token,
		CertificateNumber: number,
		CertificateURL:    docURL,
		CompletionRate:    100,
	}

	// The store resolves races: if another request inserted first, we get its
	// row back and this token is discarded.
	stored, err := i.certs.InsertIfAbsent(ctx, cert)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("persist certificate: %w", err)
	}
	return stored, nil
}

// Verify resolves a token to its certificate. Unknown tokens yield ok=false
// with no detail about near-matches.
func (i *Issuer) Verify(ctx context.Context, token string) (domain.Certificate, bool, error) {
	if token == "" {
		return domain.Certificate{}, false, nil
	}
	return i.certs.GetByToken(ctx, token)
}

// VerificationURL is the public proof link embedded in the document.
func (i *Issuer) VerificationURL(token string) string {
	return i.verifyURL + "/verify/" + token
}

// storeDocument writes the rendered document to blob storage. When the store
// is unavailable the document is embedded inline so issuance still succeeds;
// the degraded write is logged for operators.
func (i *Issuer) storeDocument(ctx context.Context, userID, courseID, doc string) string {
	key := fmt.Sprintf("certificates/%s/%s.html", userID, courseID)
	url, err := i.blobs.Put(ctx, key, strings.NewReader(doc))
	if err != nil {
		i.log.Warn("certificate blob write failed, embedding document inline",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
			zap.Error(err))
		return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(doc))
	}
	return url
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func newNumber(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("CERT-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf))), nil
}
