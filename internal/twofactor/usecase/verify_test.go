package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_EmailOTPMissingCode(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()

	err := h.uc.Verify(context.Background(), VerifyInput{Admin: admin})

	gerr := requireGoError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Please enter the email OTP code", gerr.Msg())
	assert.ErrorIs(t, err, entity.ErrMissingCode)
	assert.Equal(t, entity.FactorEmailOTP, factorOf(err))

	rf, ok := requiredFactorsOf(err)
	require.True(t, ok)
	assert.Equal(t, entity.RequiredFactors{EmailOTP: true, TOTP: false}, rf)
	assert.Empty(t, h.mail.sent)
}

func TestVerify_AutoSendStillReportsMissingCode(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()

	err := h.uc.Verify(context.Background(), VerifyInput{Admin: admin, AutoSendEmailOTP: true})

	assert.ErrorIs(t, err, entity.ErrMissingCode)
	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, admin.Email, h.mail.sent[0].To)
	assert.NotEmpty(t, h.cache.code(admin.ID))
}

func TestVerify_AutoSendSwallowsCooldown(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	ctx := context.Background()

	require.ErrorIs(t, h.uc.Verify(ctx, VerifyInput{Admin: admin, AutoSendEmailOTP: true}), entity.ErrMissingCode)
	first := h.cache.code(admin.ID)

	h.clock.Advance(10 * time.Second)
	err := h.uc.Verify(ctx, VerifyInput{Admin: admin, AutoSendEmailOTP: true})

	requireGoError(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, entity.ErrMissingCode)
	assert.Len(t, h.mail.sent, 1)
	assert.Equal(t, first, h.cache.code(admin.ID))
}

func TestVerify_AutoSendFailureIsDispatchFailed(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	h.cache.err = errBoom

	err := h.uc.Verify(context.Background(), VerifyInput{Admin: admin, AutoSendEmailOTP: true})

	requireGoError(t, err, http.StatusInternalServerError)
	assert.ErrorIs(t, err, entity.ErrDispatchFailed)
	rf, ok := requiredFactorsOf(err)
	require.True(t, ok)
	assert.True(t, rf.EmailOTP)
}

func TestVerify_AutoSendDeliveryFailure(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	h.mail.err = errBoom

	// delivery failure is not an error: the code is stored and the caller
	// still gets MissingCode
	err := h.uc.Verify(context.Background(), VerifyInput{Admin: admin, AutoSendEmailOTP: true})

	assert.ErrorIs(t, err, entity.ErrMissingCode)
	assert.NotEmpty(t, h.cache.code(admin.ID))
}

func TestVerify_EmailOTPSingleUse(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	ctx := context.Background()

	_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)
	code := h.cache.code(admin.ID)

	require.NoError(t, h.uc.Verify(ctx, VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{EmailOTPCode: code}}))

	err = h.uc.Verify(ctx, VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{EmailOTPCode: code}})
	requireGoError(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, entity.ErrInvalidCode)
	assert.Equal(t, entity.FactorEmailOTP, factorOf(err))
}

func TestVerify_EmailOTPComparedExactly(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	ctx := context.Background()

	_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)
	code := h.cache.code(admin.ID)

	for _, submitted := range []string{" " + code, code + "\n", "  " + code + "  "} {
		err := h.uc.Verify(ctx, VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{EmailOTPCode: submitted}})
		requireGoError(t, err, http.StatusBadRequest)
		assert.ErrorIs(t, err, entity.ErrInvalidCode, "%q", submitted)
	}

	// a rejected attempt leaves the stored code in place
	assert.NoError(t, h.uc.Verify(ctx, VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{EmailOTPCode: code}}))
}

func TestVerify_WhitespaceEmailOTPIsInvalidNotMissing(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()

	err := h.uc.Verify(context.Background(), VerifyInput{
		Admin:            admin,
		Codes:            entity.SubmittedCodes{EmailOTPCode: "   "},
		AutoSendEmailOTP: true,
	})

	assert.ErrorIs(t, err, entity.ErrInvalidCode)
	assert.NotErrorIs(t, err, entity.ErrMissingCode)
	assert.Equal(t, entity.FactorEmailOTP, factorOf(err))
	assert.Empty(t, h.mail.sent)
	assert.Zero(t, h.cache.sets)
}

func TestVerify_TOTPComparedExactly(t *testing.T) {
	h := newHarness(t)
	admin := totpOnlyAdmin()
	code := h.totpCode(t, h.clock.Now())

	err := h.uc.Verify(context.Background(), VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{TOTPCode: " " + code}})
	assert.ErrorIs(t, err, entity.ErrInvalidCode)

	err = h.uc.Verify(context.Background(), VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{TOTPCode: "   "}})
	assert.ErrorIs(t, err, entity.ErrInvalidCode)
	assert.NotErrorIs(t, err, entity.ErrMissingCode)
}

func TestVerify_EmailOTPWrongCode(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	ctx := context.Background()

	_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)

	err = h.uc.Verify(ctx, VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{EmailOTPCode: "nope"}})
	assert.ErrorIs(t, err, entity.ErrInvalidCode)

	gerr := requireGoError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid email OTP code", gerr.Msg())
	assert.NotEmpty(t, h.cache.code(admin.ID), "a wrong code must not consume the stored one")
}

func TestVerify_EmailOTPExpired(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	ctx := context.Background()

	_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)
	code := h.cache.code(admin.ID)

	h.clock.Advance(301 * time.Second)

	err = h.uc.Verify(ctx, VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{EmailOTPCode: code}})
	assert.ErrorIs(t, err, entity.ErrInvalidCode)
}

func TestVerify_TOTP(t *testing.T) {
	h := newHarness(t)
	admin := totpOnlyAdmin()
	now := h.clock.Now()

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "current step", code: h.totpCode(t, now)},
		{name: "missing", code: "", wantErr: entity.ErrMissingCode},
		{name: "previous step", code: h.totpCode(t, now.Add(-30*time.Second)), wantErr: entity.ErrInvalidCode},
		{name: "next step", code: h.totpCode(t, now.Add(30*time.Second)), wantErr: entity.ErrInvalidCode},
		{name: "garbage", code: "abcdef", wantErr: entity.ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.uc.Verify(context.Background(), VerifyInput{
				Admin: admin,
				Codes: entity.SubmittedCodes{TOTPCode: tt.code},
			})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, entity.FactorTOTP, factorOf(err))
			rf, ok := requiredFactorsOf(err)
			require.True(t, ok)
			assert.Equal(t, entity.RequiredFactors{TOTP: true}, rf)
		})
	}
}

func TestVerify_EmailOTPConsumedBeforeTOTPFails(t *testing.T) {
	h := newHarness(t)
	admin := bothFactorsAdmin()
	ctx := context.Background()

	_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)
	code := h.cache.code(admin.ID)

	err = h.uc.Verify(ctx, VerifyInput{Admin: admin, Codes: entity.SubmittedCodes{EmailOTPCode: code, TOTPCode: "000000x"}})
	assert.ErrorIs(t, err, entity.ErrInvalidCode)
	assert.Equal(t, entity.FactorTOTP, factorOf(err))

	err = h.uc.Verify(ctx, VerifyInput{
		Admin: admin,
		Codes: entity.SubmittedCodes{EmailOTPCode: code, TOTPCode: h.totpCode(t, h.clock.Now())},
	})
	assert.ErrorIs(t, err, entity.ErrInvalidCode)
	assert.Equal(t, entity.FactorEmailOTP, factorOf(err))
}

func TestVerify_BothFactors(t *testing.T) {
	h := newHarness(t)
	admin := bothFactorsAdmin()
	ctx := context.Background()

	_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)

	err = h.uc.Verify(ctx, VerifyInput{
		Admin: admin,
		Codes: entity.SubmittedCodes{EmailOTPCode: h.cache.code(admin.ID), TOTPCode: h.totpCode(t, h.clock.Now())},
	})
	assert.NoError(t, err)
}

func TestVerify_WantNarrowsFactors(t *testing.T) {
	h := newHarness(t)
	admin := bothFactorsAdmin()

	err := h.uc.Verify(context.Background(), VerifyInput{
		Admin: admin,
		Codes: entity.SubmittedCodes{TOTPCode: h.totpCode(t, h.clock.Now())},
		Want:  &entity.RequiredFactors{TOTP: true},
	})
	assert.NoError(t, err)

	err = h.uc.Verify(context.Background(), VerifyInput{
		Admin: admin,
		Want:  &entity.RequiredFactors{EmailOTP: true},
	})
	assert.ErrorIs(t, err, entity.ErrMissingCode)
	rf, ok := requiredFactorsOf(err)
	require.True(t, ok)
	assert.Equal(t, entity.RequiredFactors{EmailOTP: true}, rf)
}

func TestVerify_NothingRequired(t *testing.T) {
	h := newHarness(t)
	admin := &entity.Admin{ID: 9, Account: "plain", Status: entity.TwoFactorStatus{EmailOTP: true, TOTP: true}}

	assert.NoError(t, h.uc.Verify(context.Background(), VerifyInput{Admin: admin, AutoSendEmailOTP: true}))
	assert.Empty(t, h.mail.sent)
}

func TestVerify_ResolvesAuthenticatedAdmin(t *testing.T) {
	h := newHarness(t)
	admin := totpOnlyAdmin()
	h.db.admins[admin.ID] = admin

	err := h.uc.Verify(authCtx(admin.ID), VerifyInput{Codes: entity.SubmittedCodes{TOTPCode: h.totpCode(t, h.clock.Now())}})
	assert.NoError(t, err)
}

func TestVerify_Unauthenticated(t *testing.T) {
	h := newHarness(t)

	err := h.uc.Verify(context.Background(), VerifyInput{})
	requireGoError(t, err, http.StatusUnauthorized)
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)

	err = h.uc.Verify(authCtx(404), VerifyInput{})
	requireGoError(t, err, http.StatusUnauthorized)
}

func TestVerify_RepoFailure(t *testing.T) {
	h := newHarness(t)
	h.db.err = errBoom

	err := h.uc.Verify(authCtx(1), VerifyInput{})
	requireGoError(t, err, http.StatusInternalServerError)
}

func TestVerify_OversizedCodes(t *testing.T) {
	h := newHarness(t)
	long := strings.Repeat("a", 65)

	// nothing required: submitted codes are ignored whatever their size
	plain := &entity.Admin{ID: 9, Account: "plain"}
	assert.NoError(t, h.uc.Verify(context.Background(), VerifyInput{
		Admin: plain,
		Codes: entity.SubmittedCodes{EmailOTPCode: long, TOTPCode: strings.Repeat("1", 17)},
	}))

	// required: an oversized code is simply a wrong code
	err := h.uc.Verify(context.Background(), VerifyInput{
		Admin: emailOnlyAdmin(),
		Codes: entity.SubmittedCodes{EmailOTPCode: long},
	})
	requireGoError(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, entity.ErrInvalidCode)
	rf, ok := requiredFactorsOf(err)
	require.True(t, ok)
	assert.True(t, rf.EmailOTP)

	err = h.uc.Verify(context.Background(), VerifyInput{
		Admin: totpOnlyAdmin(),
		Codes: entity.SubmittedCodes{TOTPCode: strings.Repeat("1", 17)},
	})
	assert.ErrorIs(t, err, entity.ErrInvalidCode)
	assert.Equal(t, entity.FactorTOTP, factorOf(err))
}
