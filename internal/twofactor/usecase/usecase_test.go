package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/jwt"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"github.com/stretchr/testify/require"
)

const testTOTPSecret = "JBSWY3DPEHPK3PXP"

var errBoom = errors.New("boom")

type cacheEntry struct {
	code      string
	expiresAt time.Time
}

// fakeCache expires records using the shared fake clock.
type fakeCache struct {
	clock   *clock.Manual
	entries map[int64]cacheEntry
	err     error
	sets    int
}

func newFakeCache(clk *clock.Manual) *fakeCache {
	return &fakeCache{clock: clk, entries: make(map[int64]cacheEntry)}
}

func (c *fakeCache) live(id int64) (cacheEntry, bool) {
	e, ok := c.entries[id]
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, id)
		return cacheEntry{}, false
	}
	return e, true
}

func (c *fakeCache) TTLEmailOTP(_ context.Context, id int64) (time.Duration, error) {
	if c.err != nil {
		return 0, c.err
	}
	e, ok := c.live(id)
	if !ok {
		return -2 * time.Second, nil
	}
	return e.expiresAt.Sub(c.clock.Now()), nil
}

func (c *fakeCache) SetEmailOTP(_ context.Context, id int64, code string, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.sets++
	c.entries[id] = cacheEntry{code: code, expiresAt: c.clock.Now().Add(ttl)}
	return nil
}

func (c *fakeCache) ConsumeEmailOTP(_ context.Context, id int64, code string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	e, ok := c.live(id)
	if !ok || e.code != code {
		return false, nil
	}
	delete(c.entries, id)
	return true, nil
}

func (c *fakeCache) DelEmailOTP(_ context.Context, id int64) error {
	delete(c.entries, id)
	return c.err
}

func (c *fakeCache) code(id int64) string {
	e, _ := c.live(id)
	return e.code
}

type fakeMail struct {
	sent []entity.Email
	err  error
}

func (m *fakeMail) Send(_ context.Context, in entity.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, in)
	return nil
}

type fakeRepoDB struct {
	admins  map[int64]*entity.Admin
	updates []entity.AdminSettings
	err     error
}

func (r *fakeRepoDB) GetAdminByID(_ context.Context, id int64) (*entity.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.admins[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepoDB) UpdateAdminSettings(_ context.Context, in entity.AdminSettings) error {
	if r.err != nil {
		return r.err
	}
	r.updates = append(r.updates, in)
	return nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errBoom }

type harness struct {
	uc    *Usecase
	clock *clock.Manual
	cache *fakeCache
	mail  *fakeMail
	db    *fakeRepoDB
	totp  *otp.TOTP
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := clock.NewManual(time.Date(2026, 10, 17, 8, 0, 5, 0, time.UTC))
	cache := newFakeCache(clk)
	mail := &fakeMail{}
	db := &fakeRepoDB{admins: map[int64]*entity.Admin{}}
	totp := otp.NewTOTP("Admin Console", 30, 0, libOTP.DigitsSix)

	h := &harness{clock: clk, cache: cache, mail: mail, db: db, totp: totp}
	h.uc = New(Dependency{
		RepoDB:    db,
		RepoCache: cache,
		RepoMail:  mail,
		Validator: v,
		Settings: Settings{
			EmailOTPExpiration: 300 * time.Second,
			EmailOTPCooling:    60 * time.Second,
			TOTPIssuer:         "Admin Console",
			Location:           time.FixedZone("UTC+8", 8*60*60),
		},
		Totp:       totp,
		Code:       otp.NewRandomCode(),
		Clock:      clk,
		Instrument: instrument.NewNoop(),
	})

	return h
}

func (h *harness) totpCode(t *testing.T, at time.Time) string {
	t.Helper()
	code, err := h.totp.GenerateCode(testTOTPSecret, at)
	require.NoError(t, err)
	return code
}

func emailOnlyAdmin() *entity.Admin {
	return &entity.Admin{
		ID:      1,
		Account: "root",
		Email:   "root@example.com",
		Status:  entity.TwoFactorStatus{EmailOTP: true},
	}
}

func totpOnlyAdmin() *entity.Admin {
	return &entity.Admin{
		ID:         2,
		Account:    "ops",
		TOTPSecret: testTOTPSecret,
		Status:     entity.TwoFactorStatus{TOTP: true},
	}
}

func bothFactorsAdmin() *entity.Admin {
	return &entity.Admin{
		ID:         3,
		Account:    "sec",
		Email:      "sec@example.com",
		TOTPSecret: testTOTPSecret,
		Status:     entity.TwoFactorStatus{EmailOTP: true, TOTP: true},
	}
}

func authCtx(id int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{AdminID: id})
}

func requireGoError(t *testing.T, err error, status int) *goerror.Error {
	t.Helper()
	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, status, gerr.StatusCode())
	return gerr
}

// requiredFactorsOf returns the factors attached to a verification error.
func requiredFactorsOf(err error) (entity.RequiredFactors, bool) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		return entity.RequiredFactors{}, false
	}

	vc, ok := gerr.Data().(entity.VerificationContext)
	return vc.RequiredFactors, ok
}
