package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmailOTP_Sends(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()

	out, err := h.uc.SendEmailOTP(context.Background(), SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)
	assert.True(t, out.Sent)
	assert.Equal(t, h.clock.Now().Add(300*time.Second), out.ExpiresAt)

	code := h.cache.code(admin.ID)
	require.Len(t, code, 6)

	require.Len(t, h.mail.sent, 1)
	mail := h.mail.sent[0]
	assert.Equal(t, "root@example.com", mail.To)
	assert.Equal(t, "root", mail.ReplyToOrContext)
	assert.Contains(t, mail.HTMLBody, "<strong>"+code+"</strong>")
	assert.Contains(t, mail.TextBody, code)
	// 08:05:05 UTC rendered in UTC+8
	assert.Contains(t, mail.TextBody, "2026-10-17 16:05:05 (UTC+08:00)")
	assert.Contains(t, mail.TextBody, "becomes invalid immediately")
	assert.Len(t, strings.Split(mail.TextBody, "\n"), 3)
}

func TestSendEmailOTP_Cooldown(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{name: "just issued", elapsed: 0, wantErr: true},
		{name: "50s elapsed, 250s left", elapsed: 50 * time.Second, wantErr: true},
		{name: "59s elapsed", elapsed: 59 * time.Second, wantErr: true},
		{name: "60s elapsed", elapsed: 60 * time.Second},
		{name: "100s elapsed, 200s left", elapsed: 100 * time.Second},
		{name: "expired", elapsed: 301 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			admin := emailOnlyAdmin()
			ctx := context.Background()

			_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
			require.NoError(t, err)
			first := h.cache.code(admin.ID)

			h.clock.Advance(tt.elapsed)

			out, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
			if tt.wantErr {
				requireGoError(t, err, http.StatusTooManyRequests)
				assert.ErrorIs(t, err, entity.ErrCooldownActive)
				assert.Nil(t, out)
				assert.Equal(t, 1, h.cache.sets)
				assert.Len(t, h.mail.sent, 1)
				return
			}

			require.NoError(t, err)
			assert.True(t, out.Sent)
			assert.Equal(t, 2, h.cache.sets)

			ttl, err := h.cache.TTLEmailOTP(ctx, admin.ID)
			require.NoError(t, err)
			assert.Equal(t, 300*time.Second, ttl)

			// the previous code is gone once a new one is issued
			second := h.cache.code(admin.ID)
			if first != second {
				ok, err := h.cache.ConsumeEmailOTP(ctx, admin.ID, first)
				require.NoError(t, err)
				assert.False(t, ok)
			}
		})
	}
}

func TestSendEmailOTP_ZeroCoolingAlwaysReissues(t *testing.T) {
	h := newHarness(t)
	h.uc.settings.EmailOTPCooling = 0
	admin := emailOnlyAdmin()
	ctx := context.Background()

	for range 3 {
		_, err := h.uc.SendEmailOTP(ctx, SendEmailOTPInput{Admin: admin})
		require.NoError(t, err)
	}
	assert.Len(t, h.mail.sent, 3)
}

func TestSendEmailOTP_NoEmailBound(t *testing.T) {
	h := newHarness(t)
	admin := totpOnlyAdmin()

	out, err := h.uc.SendEmailOTP(context.Background(), SendEmailOTPInput{Admin: admin})
	assert.Nil(t, out)
	requireGoError(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, entity.ErrNoEmailBound)
	assert.Zero(t, h.cache.sets)
}

func TestSendEmailOTP_DeliveryFailureKeepsCode(t *testing.T) {
	h := newHarness(t)
	h.mail.err = errBoom
	admin := emailOnlyAdmin()

	out, err := h.uc.SendEmailOTP(context.Background(), SendEmailOTPInput{Admin: admin})
	require.NoError(t, err)
	assert.False(t, out.Sent)
	assert.NotEmpty(t, h.cache.code(admin.ID))
}

func TestSendEmailOTP_StoreFailure(t *testing.T) {
	h := newHarness(t)
	h.cache.err = errBoom

	_, err := h.uc.SendEmailOTP(context.Background(), SendEmailOTPInput{Admin: emailOnlyAdmin()})
	requireGoError(t, err, http.StatusInternalServerError)
	assert.Empty(t, h.mail.sent)
}

func TestSendEmailOTP_RandomSourceFailure(t *testing.T) {
	h := newHarness(t)
	h.uc.code = otp.NewRandomCodeFrom(failingReader{})

	_, err := h.uc.SendEmailOTP(context.Background(), SendEmailOTPInput{Admin: emailOnlyAdmin()})
	requireGoError(t, err, http.StatusInternalServerError)
	assert.ErrorIs(t, err, entity.ErrCryptoSource)
	assert.Zero(t, h.cache.sets)
}

func TestSendEmailOTP_AuthenticatedAdmin(t *testing.T) {
	h := newHarness(t)
	admin := emailOnlyAdmin()
	h.db.admins[admin.ID] = admin

	out, err := h.uc.SendEmailOTP(authCtx(admin.ID), SendEmailOTPInput{})
	require.NoError(t, err)
	assert.True(t, out.Sent)

	_, err = h.uc.SendEmailOTP(context.Background(), SendEmailOTPInput{})
	requireGoError(t, err, http.StatusUnauthorized)
}
