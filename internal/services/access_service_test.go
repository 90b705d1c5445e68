package services

import (
	"testing"
	"time"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessFixture struct {
	store   *store.Store
	service *AccessService
	clock   *fakeClock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newAccessFixture(t *testing.T, cooldown time.Duration) *accessFixture {
	t.Helper()

	logger := testLogger()
	st := store.New()
	m := mirror.New(mirror.NewNoopBackend(), logger)
	t.Cleanup(m.Close)

	audit := NewAuditService(st, m, logger)
	svc := NewAccessService(st, m, audit, cooldown, logger)

	clock := &fakeClock{now: time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)}
	svc.now = clock.Now

	return &accessFixture{store: st, service: svc, clock: clock}
}

func approvedPedestrian(id string) *models.Visitor {
	return &models.Visitor{
		ID:            id,
		Name:          "Aisha Rahman",
		Contact:       "+60123456789",
		TransportMode: models.TransportModeNonCar,
		Status:        models.VisitorStatusApproved,
		QRType:        models.QRType3,
	}
}

func approvedCarVisitor(id, plate string) *models.Visitor {
	v := approvedPedestrian(id)
	v.TransportMode = models.TransportModeCar
	v.LicensePlate = plate
	v.QRType = models.QRType2
	return v
}

func activeVip(id, plate string, now time.Time) *models.VipRecord {
	return &models.VipRecord{
		ID:           id,
		Name:         "Dato Azlan",
		LicensePlate: plate,
		ValidFrom:    now.AddDate(0, -1, 0),
		ValidUntil:   now.AddDate(0, 1, 0),
		Status:       models.VipStatusActive,
	}
}

func TestResolveQRGrantAndToggle(t *testing.T) {
	f := newAccessFixture(t, 0)
	f.store.PutVisitor(approvedPedestrian("12345"))

	// First scan enters
	res, err := f.service.ResolveQR("12345", access.CheckpointFrontGate)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, models.AccessActionEntry, res.Action)

	v, _ := f.store.GetVisitor("12345")
	require.NotNil(t, v.TimeIn)
	assert.Nil(t, v.TimeOut)

	// Second scan while inside exits
	f.clock.Advance(2 * time.Hour)
	res, err = f.service.ResolveQR("12345", access.CheckpointFrontGate)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, models.AccessActionExit, res.Action)

	v, _ = f.store.GetVisitor("12345")
	require.NotNil(t, v.TimeOut)

	// Third scan after a full cycle grants entry again. The original
	// time-in is kept, documenting the permissive toggle rather than a
	// strict state machine.
	f.clock.Advance(time.Hour)
	res, err = f.service.ResolveQR("12345", access.CheckpointFrontGate)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, models.AccessActionEntry, res.Action)
}

func TestResolveQRToggleScopedToEntryCheckpoint(t *testing.T) {
	f := newAccessFixture(t, 0)
	f.store.PutVisitor(approvedPedestrian("12345"))

	_, err := f.service.ResolveQR("12345", access.CheckpointFrontGate)
	require.NoError(t, err)

	v, _ := f.store.GetVisitor("12345")
	require.NotNil(t, v.TimeIn)
	assert.Equal(t, models.LocationFrontGate, v.EntryLocation)

	// Riding the elevator while inside must not end the visit.
	f.clock.Advance(5 * time.Minute)
	res, err := f.service.ResolveQR("12345", access.CheckpointElevator)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, models.AccessActionEntry, res.Action)

	v, _ = f.store.GetVisitor("12345")
	assert.Nil(t, v.TimeOut, "an elevator grant while inside must not stamp time-out")

	// Back at the front gate the open visit closes.
	f.clock.Advance(2 * time.Hour)
	res, err = f.service.ResolveQR("12345", access.CheckpointFrontGate)
	require.NoError(t, err)
	assert.Equal(t, models.AccessActionExit, res.Action)

	v, _ = f.store.GetVisitor("12345")
	assert.NotNil(t, v.TimeOut)
}

func TestResolveQRDenials(t *testing.T) {
	f := newAccessFixture(t, 0)

	pending := approvedPedestrian("11111")
	pending.Status = models.VisitorStatusPending
	f.store.PutVisitor(pending)
	f.store.PutVisitor(approvedCarVisitor("22222", "WXY 789"))

	t.Run("unknown code", func(t *testing.T) {
		res, err := f.service.ResolveQR("99999", access.CheckpointFrontGate)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, access.ReasonNotFound, res.Reason)
		assert.Equal(t, access.MatchUnknown, res.Match)
	})

	t.Run("pending visitor held", func(t *testing.T) {
		res, err := f.service.ResolveQR("11111", access.CheckpointFrontGate)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, access.ReasonAwaitingApproval, res.Reason)
	})

	t.Run("QR2 refused at front gate", func(t *testing.T) {
		res, err := f.service.ResolveQR("22222", access.CheckpointFrontGate)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, access.ReasonWrongQRClass, res.Reason)
	})

	t.Run("unknown checkpoint", func(t *testing.T) {
		_, err := f.service.ResolveQR("22222", "LOADING_DOCK")
		assert.ErrorIs(t, err, ErrUnknownCheckpoint)
	})
}

func TestResolveQRDeniedWritesLog(t *testing.T) {
	f := newAccessFixture(t, 0)

	_, err := f.service.ResolveQR("99999", access.CheckpointFrontGate)
	require.NoError(t, err)

	logs := f.store.AccessLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, models.AccessActionDenied, logs[0].Action)
	assert.Equal(t, models.LocationFrontGate, logs[0].Location)
	assert.Equal(t, models.MethodQR, logs[0].Method)
}

func TestResolveManual(t *testing.T) {
	f := newAccessFixture(t, 0)
	f.store.PutVisitor(approvedCarVisitor("22222", "WXY 789"))

	// QR2 would be refused at the front gate by a QR scan; manual entry
	// skips the class constraint.
	res, err := f.service.ResolveManual("22222", access.CheckpointFrontGate, "by=admin ip=10.0.0.5 device=desktop/Windows 10")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	logs := f.store.AccessLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, models.AccessActionManualOverride, logs[0].Action)
	assert.Equal(t, models.MethodManual, logs[0].Method)
	assert.Contains(t, logs[0].Details, "by=admin")
}

func TestBlacklistMatchesIdentifiersNotCodes(t *testing.T) {
	f := newAccessFixture(t, 0)

	v := approvedPedestrian("12345")
	f.store.PutVisitor(v)
	f.store.PutBlacklistRecord(&models.BlacklistRecord{
		ID:     "bl-1",
		Phone:  v.Contact,
		Reason: "Repeated trespassing",
		Status: models.BlacklistStatusActive,
	})

	// A code lookup carries no phone identifier, so the phone ban does
	// not fire through it
	res, err := f.service.ResolveManual("12345", access.CheckpointFrontGate, "by=admin")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	f.store.PutBlacklistRecord(&models.BlacklistRecord{
		ID:           "bl-2",
		LicensePlate: "BAD 123",
		Reason:       "Stolen vehicle",
		Status:       models.BlacklistStatusActive,
	})

	lprRes, err := f.service.ResolveLPR(LPREventInput{
		Plate:      "bad-123",
		Mode:       models.LPRModeEntry,
		Checkpoint: access.CheckpointFrontGate,
	})
	require.NoError(t, err)
	assert.False(t, lprRes.Allowed)
	assert.Equal(t, "Stolen vehicle", lprRes.Reason)
}

func TestResolveLPRVisitorFlow(t *testing.T) {
	f := newAccessFixture(t, 0)
	f.store.PutVisitor(approvedCarVisitor("22222", "WXY 789"))

	res, err := f.service.ResolveLPR(LPREventInput{
		Plate:        "wxy-789",
		VehicleColor: "silver",
		Confidence:   0.97,
		Mode:         models.LPRModeEntry,
		Checkpoint:   access.CheckpointFrontGate,
	})
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	require.NotNil(t, res.Visitor)
	assert.Equal(t, "22222", res.Visitor.ID)

	// One access log, one LPR log, one scan record
	assert.Len(t, f.store.AccessLogs(), 1)

	lprLogs := f.store.LPRLogs()
	require.Len(t, lprLogs, 1)
	assert.Equal(t, "WXY789", lprLogs[0].Plate)
	assert.Equal(t, models.LPRStatusApproved, lprLogs[0].Status)
	assert.False(t, lprLogs[0].IsVip)

	rec, ok := f.store.GetScanRecord("WXY789")
	require.True(t, ok)
	assert.Equal(t, models.ScanStatusKnown, rec.Status)
	assert.NotNil(t, rec.EntryAt)
	assert.Equal(t, models.ScanOutcomePassed, rec.Outcome)
}

func TestResolveLPRVip(t *testing.T) {
	f := newAccessFixture(t, 0)
	f.store.PutVipRecord(activeVip("vip-1", "VIP 1", f.clock.now))

	t.Run("entry at front gate", func(t *testing.T) {
		res, err := f.service.ResolveLPR(LPREventInput{
			Plate:      "VIP 1",
			Mode:       models.LPRModeEntry,
			Checkpoint: access.CheckpointFrontGate,
		})
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		require.NotNil(t, res.Vip)

		vip, _ := f.store.GetVipRecord("vip-1")
		assert.NotNil(t, vip.LastEntryTime)
	})

	t.Run("rejected at elevator", func(t *testing.T) {
		res, err := f.service.ResolveLPR(LPREventInput{
			Plate:      "VIP 1",
			Mode:       models.LPRModeEntry,
			Checkpoint: access.CheckpointElevator,
		})
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, access.ReasonLPRNotAllowed, res.Reason)
	})
}

func TestResolveLPRCooldown(t *testing.T) {
	f := newAccessFixture(t, 30*time.Second)
	f.store.PutVisitor(approvedCarVisitor("22222", "WXY 789"))

	input := LPREventInput{
		Plate:      "WXY 789",
		Mode:       models.LPRModeEntry,
		Checkpoint: access.CheckpointFrontGate,
	}

	_, err := f.service.ResolveLPR(input)
	require.NoError(t, err)

	// Same plate 10 seconds later: refused with no decision emitted
	f.clock.Advance(10 * time.Second)
	_, err = f.service.ResolveLPR(input)
	assert.ErrorIs(t, err, ErrScanCooldown)
	assert.Len(t, f.store.LPRLogs(), 1, "a cooldown rejection must not append a log")

	// Different plate is unaffected
	_, err = f.service.ResolveLPR(LPREventInput{
		Plate:      "OTHER 1",
		Mode:       models.LPRModeEntry,
		Checkpoint: access.CheckpointFrontGate,
	})
	assert.NoError(t, err)

	// Original plate after the window passes
	f.clock.Advance(30 * time.Second)
	_, err = f.service.ResolveLPR(input)
	assert.NoError(t, err)
}

func TestResolveLPREmptyPlate(t *testing.T) {
	f := newAccessFixture(t, 0)

	_, err := f.service.ResolveLPR(LPREventInput{
		Plate:      "---",
		Mode:       models.LPRModeEntry,
		Checkpoint: access.CheckpointFrontGate,
	})
	assert.Error(t, err)
}

func TestResolveLPRUnknownPlateRecorded(t *testing.T) {
	f := newAccessFixture(t, 0)

	res, err := f.service.ResolveLPR(LPREventInput{
		Plate:      "ZZZ 000",
		Mode:       models.LPRModeEntry,
		Checkpoint: access.CheckpointFrontGate,
	})
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, access.ReasonNotFound, res.Reason)

	rec, ok := f.store.GetScanRecord("ZZZ000")
	require.True(t, ok)
	assert.Equal(t, models.ScanStatusUnknown, rec.Status)
	assert.Nil(t, rec.EntryAt)
	assert.NotNil(t, rec.AttemptedAt)
}
