package db

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
)

const getAdminByIDSQL = `
SELECT id, account, COALESCE(email, ''), totp_secret, email_otp_enabled, totp_enabled
FROM admins
WHERE id = $1`

// A NULL argument keeps the stored column. totp_secret is set to NULL when
// $5 is true.
const updateAdminSettingsSQL = `
UPDATE admins SET
	email_otp_enabled = COALESCE($2, email_otp_enabled),
	totp_enabled      = COALESCE($3, totp_enabled),
	totp_secret       = CASE WHEN $5 THEN NULL ELSE COALESCE($4, totp_secret) END,
	updated_at        = NOW()
WHERE id = $1`

func (s *DB) GetAdminByID(ctx context.Context, id int64) (_ *entity.Admin, err error) {
	ctx, span := s.startSpan(ctx, "GetAdminByID")
	defer func() { s.endSpan(span, err) }()

	var (
		admin  entity.Admin
		sealed []byte
	)

	err = s.conn.QueryRow(ctx, getAdminByIDSQL, id).Scan(
		&admin.ID,
		&admin.Account,
		&admin.Email,
		&sealed,
		&admin.Status.EmailOTP,
		&admin.Status.TOTP,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if len(sealed) > 0 {
		plain, err := s.enc.Decrypt(sealed, seedScope(admin.ID))
		if err != nil {
			return nil, fmt.Errorf("decrypt totp secret: %w", err)
		}
		admin.TOTPSecret = string(plain)
	}

	return &admin, nil
}

func (s *DB) UpdateAdminSettings(ctx context.Context, in entity.AdminSettings) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAdminSettings")
	defer func() { s.endSpan(span, err) }()

	var (
		sealed      []byte
		clearSecret bool
	)

	if in.TOTPSecret != nil {
		if *in.TOTPSecret == "" {
			clearSecret = true
		} else {
			sealed, err = s.enc.Encrypt([]byte(*in.TOTPSecret), seedScope(in.AdminID))
			if err != nil {
				return fmt.Errorf("encrypt totp secret: %w", err)
			}
		}
	}

	tag, err := s.conn.Exec(ctx, updateAdminSettingsSQL, in.AdminID, in.EmailOTP, in.TOTP, sealed, clearSecret)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
