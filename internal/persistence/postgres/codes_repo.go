package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// CodesRepo implements persistence.CodesRepo.
type CodesRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewCodesRepo(db *sqlx.DB, timeout time.Duration) *CodesRepo {
	return &CodesRepo{db: db, timeout: timeout}
}

func (r *CodesRepo) SaveVerificationCode(ctx context.Context, code persistence.VerificationCode) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_codes (user_id, verification_code, email, cutoff)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			verification_code = EXCLUDED.verification_code,
			email = EXCLUDED.email,
			cutoff = EXCLUDED.cutoff`,
		code.UserID, code.Code, code.Email, code.Cutoff)
	if err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}
	return nil
}

func (r *CodesRepo) VerificationCode(ctx context.Context, userID uuid.UUID) (persistence.VerificationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var code persistence.VerificationCode
	err := r.db.GetContext(ctx, &code, `
		SELECT user_id, verification_code, email, cutoff
		FROM verification_codes WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.VerificationCode{}, fmt.Errorf("verification code: %w", f1.ErrNotFound)
	}
	if err != nil {
		return persistence.VerificationCode{}, fmt.Errorf("failed to get verification code: %w", err)
	}
	return code, nil
}

func (r *CodesRepo) DeleteVerificationCode(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}

func (r *CodesRepo) DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE cutoff < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verification codes: %w", err)
	}
	return res.RowsAffected()
}

func (r *CodesRepo) SaveReferralCode(ctx context.Context, userID uuid.UUID, code int64, cutoff time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO referral_codes (user_id, referral_code, cutoff) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			referral_code = EXCLUDED.referral_code, cutoff = EXCLUDED.cutoff`,
		userID, code, cutoff)
	if err != nil {
		return fmt.Errorf("failed to save referral code: %w", err)
	}
	return nil
}

func (r *CodesRepo) IsValidReferralCode(ctx context.Context, code int64, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM referral_codes WHERE referral_code = $1 AND cutoff > $2`,
		code, now)
	if err != nil {
		return false, fmt.Errorf("failed to check referral code: %w", err)
	}
	return count > 0, nil
}

func (r *CodesRepo) DeleteExpiredReferralCodes(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM referral_codes WHERE cutoff < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired referral codes: %w", err)
	}
	return res.RowsAffected()
}
