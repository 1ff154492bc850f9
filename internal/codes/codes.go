// Package codes issues and sweeps short-lived verification and referral
// codes.
package codes

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voiestad/f1-backend/internal/cutoff"
	"github.com/voiestad/f1-backend/internal/persistence"
)

const (
	// Verification codes are 9 digits, never starting with 0.
	verificationMin = 100_000_000
	verificationMax = 1_000_000_000

	// Referral codes are 18 digits.
	referralMin = 100_000_000_000_000_000
	referralMax = 1_000_000_000_000_000_000

	verificationTTL = 10 * time.Minute
	referralTTL     = time.Hour
)

// Service issues codes and validates them against their expiry.
type Service struct {
	repo   persistence.CodesRepo
	clock  cutoff.Clock
	logger zerolog.Logger
}

func NewService(repo persistence.CodesRepo, clock cutoff.Clock, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		clock:  clock,
		logger: logger.With().Str("component", "codes").Logger(),
	}
}

// IssueVerificationCode creates a pending email verification for the
// user, replacing any earlier pending one.
func (s *Service) IssueVerificationCode(ctx context.Context, userID uuid.UUID, email string) (int, error) {
	code, err := randomInRange(verificationMin, verificationMax)
	if err != nil {
		return 0, fmt.Errorf("issue verification code: %w", err)
	}
	record := persistence.VerificationCode{
		UserID: userID,
		Code:   int(code),
		Email:  email,
		Cutoff: s.clock.Now().Add(verificationTTL),
	}
	if err := s.repo.SaveVerificationCode(ctx, record); err != nil {
		return 0, fmt.Errorf("issue verification code: %w", err)
	}
	s.logger.Info().Str("user", userID.String()).Msg("verification code issued")
	return record.Code, nil
}

// VerifyCode checks a submitted code against the user's pending
// verification. A hit consumes the code and returns the verified email.
func (s *Service) VerifyCode(ctx context.Context, userID uuid.UUID, code int) (string, bool, error) {
	pending, err := s.repo.VerificationCode(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("verify code: %w", err)
	}
	if !s.clock.Now().Before(pending.Cutoff) || pending.Code != code {
		return "", false, nil
	}
	if err := s.repo.DeleteVerificationCode(ctx, userID); err != nil {
		return "", false, fmt.Errorf("verify code: %w", err)
	}
	return pending.Email, true, nil
}

// IssueReferralCode creates an invitation code owned by the user.
func (s *Service) IssueReferralCode(ctx context.Context, userID uuid.UUID) (int64, error) {
	code, err := randomInRange(referralMin, referralMax)
	if err != nil {
		return 0, fmt.Errorf("issue referral code: %w", err)
	}
	cutoffAt := s.clock.Now().Add(referralTTL)
	if err := s.repo.SaveReferralCode(ctx, userID, code, cutoffAt); err != nil {
		return 0, fmt.Errorf("issue referral code: %w", err)
	}
	s.logger.Info().Str("user", userID.String()).Msg("referral code issued")
	return code, nil
}

// IsValidReferralCode reports whether the code exists and has not
// expired.
func (s *Service) IsValidReferralCode(ctx context.Context, code int64) (bool, error) {
	return s.repo.IsValidReferralCode(ctx, code, s.clock.Now())
}

// Sweep removes expired codes of both kinds and returns how many rows
// were deleted.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	verifications, err := s.repo.DeleteExpiredVerificationCodes(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("sweep codes: %w", err)
	}
	referrals, err := s.repo.DeleteExpiredReferralCodes(ctx, now)
	if err != nil {
		return verifications, fmt.Errorf("sweep codes: %w", err)
	}
	total := verifications + referrals
	if total > 0 {
		s.logger.Info().
			Int64("verification", verifications).
			Int64("referral", referrals).
			Msg("expired codes swept")
	}
	return total, nil
}

// randomInRange draws a uniform random int64 in [min, max) from
// crypto/rand.
func randomInRange(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}
