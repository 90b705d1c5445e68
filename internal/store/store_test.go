package store

import (
	"testing"
	"time"

	"github.com/gatewise/vms-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVisitor(id string) *models.Visitor {
	return &models.Visitor{
		ID:            id,
		Name:          "Aisha Rahman",
		TransportMode: models.TransportModeNonCar,
		Status:        models.VisitorStatusApproved,
		QRType:        models.QRType3,
	}
}

func TestStoreVisitorCRUD(t *testing.T) {
	s := New()

	assert.False(t, s.VisitorIDExists("12345"))

	s.PutVisitor(newVisitor("12345"))
	assert.True(t, s.VisitorIDExists("12345"))

	v, ok := s.GetVisitor("12345")
	require.True(t, ok)
	assert.Equal(t, "Aisha Rahman", v.Name)

	_, ok = s.GetVisitor("54321")
	assert.False(t, ok)

	assert.Len(t, s.Visitors(), 1)
}

func TestSetVisitorStatusTransitions(t *testing.T) {
	s := New()

	v := newVisitor("12345")
	v.Status = models.VisitorStatusPending
	s.PutVisitor(v)

	t.Run("pending to approved", func(t *testing.T) {
		got, ok := s.SetVisitorStatus("12345", models.VisitorStatusApproved)
		require.True(t, ok)
		assert.Equal(t, models.VisitorStatusApproved, got.Status)
	})

	t.Run("approved is terminal", func(t *testing.T) {
		_, ok := s.SetVisitorStatus("12345", models.VisitorStatusRejected)
		assert.False(t, ok)

		got, _ := s.GetVisitor("12345")
		assert.Equal(t, models.VisitorStatusApproved, got.Status)
	})

	t.Run("unknown visitor", func(t *testing.T) {
		_, ok := s.SetVisitorStatus("99999", models.VisitorStatusApproved)
		assert.False(t, ok)
	})
}

func TestRecordEntryOnlyOnce(t *testing.T) {
	s := New()
	s.PutVisitor(newVisitor("12345"))

	first := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	s.RecordEntry("12345", models.LocationFrontGate, first)
	s.RecordEntry("12345", models.LocationElevator, second)

	v, _ := s.GetVisitor("12345")
	require.NotNil(t, v.TimeIn)
	assert.Equal(t, first, *v.TimeIn, "a second entry must not move the original time-in")
	assert.Equal(t, models.LocationFrontGate, v.EntryLocation, "the entry checkpoint sticks with the original time-in")
}

func TestRecordExitOverwrites(t *testing.T) {
	s := New()
	s.PutVisitor(newVisitor("12345"))

	first := time.Date(2026, 6, 15, 17, 0, 0, 0, time.UTC)
	second := first.Add(30 * time.Minute)

	s.RecordExit("12345", first)
	s.RecordExit("12345", second)

	v, _ := s.GetVisitor("12345")
	require.NotNil(t, v.TimeOut)
	assert.Equal(t, second, *v.TimeOut, "repeated exits keep the latest timestamp")
}

func TestRecordVipMovement(t *testing.T) {
	s := New()
	s.PutVipRecord(&models.VipRecord{ID: "vip-1", LicensePlate: "VIP 1", Status: models.VipStatusActive})

	in := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	out := in.Add(4 * time.Hour)

	s.RecordVipMovement("vip-1", models.LPRModeEntry, in)
	s.RecordVipMovement("vip-1", models.LPRModeExit, out)

	rec, ok := s.GetVipRecord("vip-1")
	require.True(t, ok)
	require.NotNil(t, rec.LastEntryTime)
	require.NotNil(t, rec.LastExitTime)
	assert.Equal(t, in, *rec.LastEntryTime)
	assert.Equal(t, out, *rec.LastExitTime)
}

func TestRegistriesSnapshot(t *testing.T) {
	s := New()
	s.PutVisitor(newVisitor("12345"))
	s.PutBlacklistRecord(&models.BlacklistRecord{ID: "bl-1", Reason: "test", Status: models.BlacklistStatusActive})
	s.PutVipRecord(&models.VipRecord{ID: "vip-1", LicensePlate: "VIP 1", Status: models.VipStatusActive})

	reg := s.Registries()
	assert.Len(t, reg.Visitors, 1)
	assert.Len(t, reg.Blacklist, 1)
	assert.Len(t, reg.Vips, 1)
}

func TestRecordsCrossBoundaryByValue(t *testing.T) {
	s := New()
	s.PutVisitor(newVisitor("12345"))

	t.Run("getter hands out a copy", func(t *testing.T) {
		v, _ := s.GetVisitor("12345")
		v.Name = "scribbled"

		got, _ := s.GetVisitor("12345")
		assert.Equal(t, "Aisha Rahman", got.Name)
	})

	t.Run("registry snapshot is frozen at its point in time", func(t *testing.T) {
		reg := s.Registries()
		s.RecordExit("12345", time.Date(2026, 6, 15, 17, 0, 0, 0, time.UTC))

		assert.Nil(t, reg.Visitors[0].TimeOut)
		got, _ := s.GetVisitor("12345")
		assert.NotNil(t, got.TimeOut)
	})

	t.Run("put keeps its own copy", func(t *testing.T) {
		orig := newVisitor("67890")
		s.PutVisitor(orig)
		orig.Status = models.VisitorStatusRejected

		got, _ := s.GetVisitor("67890")
		assert.Equal(t, models.VisitorStatusApproved, got.Status)
	})
}

func TestAccessLogsNewestFirst(t *testing.T) {
	s := New()

	base := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.AppendAccessLog(&models.AccessLog{
			ID:        string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}

	logs := s.AccessLogs()
	require.Len(t, logs, 3)
	assert.Equal(t, "c", logs[0].ID)
	assert.Equal(t, "a", logs[2].ID)
}

func TestUpsertScanRecord(t *testing.T) {
	ts := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

	t.Run("entry sets entryAt once", func(t *testing.T) {
		s := New()

		s.UpsertScanRecord("wxy 789", models.LPRModeEntry, true, ts, ScanRecordOpts{Outcome: models.ScanOutcomePassed})
		s.UpsertScanRecord("WXY-789", models.LPRModeEntry, true, ts.Add(time.Hour), ScanRecordOpts{Outcome: models.ScanOutcomePassed})

		rec, ok := s.GetScanRecord("WXY789")
		require.True(t, ok)
		assert.Equal(t, "WXY789", rec.Plate)
		require.NotNil(t, rec.EntryAt)
		assert.Equal(t, ts, *rec.EntryAt, "entry timestamp is set only once per cycle")
		assert.Equal(t, ts.Add(time.Hour), rec.LastSeenAt)
	})

	t.Run("exit always takes the latest timestamp", func(t *testing.T) {
		s := New()

		s.UpsertScanRecord("WXY789", models.LPRModeExit, true, ts, ScanRecordOpts{Outcome: models.ScanOutcomePassed})
		s.UpsertScanRecord("WXY789", models.LPRModeExit, true, ts.Add(time.Hour), ScanRecordOpts{Outcome: models.ScanOutcomePassed})

		rec, _ := s.GetScanRecord("WXY789")
		require.NotNil(t, rec.ExitAt)
		assert.Equal(t, ts.Add(time.Hour), *rec.ExitAt)
	})

	t.Run("blocked attempt touches only attemptedAt", func(t *testing.T) {
		s := New()

		s.UpsertScanRecord("BAD123", models.LPRModeEntry, true, ts, ScanRecordOpts{
			AttemptedOnly: true,
			Outcome:       models.ScanOutcomeBlocked,
			Reason:        "Repeated trespassing",
		})

		rec, _ := s.GetScanRecord("BAD123")
		assert.Nil(t, rec.EntryAt)
		assert.Nil(t, rec.ExitAt)
		require.NotNil(t, rec.AttemptedAt)
		assert.Equal(t, ts, *rec.AttemptedAt)
		assert.Equal(t, models.ScanOutcomeBlocked, rec.Outcome)
		assert.Equal(t, "Repeated trespassing", rec.Reason)
	})

	t.Run("known status is sticky", func(t *testing.T) {
		s := New()

		s.UpsertScanRecord("WXY789", models.LPRModeEntry, true, ts, ScanRecordOpts{Outcome: models.ScanOutcomePassed})
		s.UpsertScanRecord("WXY789", models.LPRModeEntry, false, ts.Add(time.Hour), ScanRecordOpts{Outcome: models.ScanOutcomeUnknown})

		rec, _ := s.GetScanRecord("WXY789")
		assert.Equal(t, models.ScanStatusKnown, rec.Status)
	})

	t.Run("outcome and reason latest wins", func(t *testing.T) {
		s := New()

		s.UpsertScanRecord("WXY789", models.LPRModeEntry, true, ts, ScanRecordOpts{Outcome: models.ScanOutcomePassed})
		s.UpsertScanRecord("WXY789", models.LPRModeExit, true, ts.Add(time.Hour), ScanRecordOpts{
			Outcome: models.ScanOutcomeBlocked,
			Reason:  "ban added mid-visit",
		})

		rec, _ := s.GetScanRecord("WXY789")
		assert.Equal(t, models.ScanOutcomeBlocked, rec.Outcome)
		assert.Equal(t, "ban added mid-visit", rec.Reason)
	})

	t.Run("unparseable plate ignored", func(t *testing.T) {
		s := New()
		assert.Nil(t, s.UpsertScanRecord("---", models.LPRModeEntry, true, ts, ScanRecordOpts{}))
		assert.Empty(t, s.ScanRecords())
	})
}
