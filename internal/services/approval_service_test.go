package services

import (
	"testing"

	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApprovalFixture(t *testing.T) (*store.Store, *ApprovalService, *recordingGateway, *Notifier) {
	t.Helper()

	logger := testLogger()
	st := store.New()
	m := mirror.New(mirror.NewNoopBackend(), logger)
	t.Cleanup(m.Close)

	gateway := &recordingGateway{}
	notifier := NewNotifier(gateway, logger)

	return st, NewApprovalService(st, m, notifier, logger), gateway, notifier
}

func pendingVisitor(id string) *models.Visitor {
	return &models.Visitor{
		ID:     id,
		Name:   "Aisha Rahman",
		Type:   models.VisitorTypePreregistered,
		Status: models.VisitorStatusPending,
		QRType: models.QRType3,
	}
}

func TestApprove(t *testing.T) {
	st, svc, _, _ := newApprovalFixture(t)
	st.PutVisitor(pendingVisitor("12345"))

	v, err := svc.Approve("12345", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.VisitorStatusApproved, v.Status)

	stored, _ := st.GetVisitor("12345")
	assert.Equal(t, models.VisitorStatusApproved, stored.Status)
}

func TestReject(t *testing.T) {
	st, svc, _, _ := newApprovalFixture(t)
	st.PutVisitor(pendingVisitor("12345"))

	v, err := svc.Reject("12345", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.VisitorStatusRejected, v.Status)
}

func TestApproveUnknownVisitor(t *testing.T) {
	_, svc, _, _ := newApprovalFixture(t)

	_, err := svc.Approve("99999", "admin")
	assert.ErrorIs(t, err, ErrVisitorNotFound)
}

func TestApproveIsTerminal(t *testing.T) {
	st, svc, _, _ := newApprovalFixture(t)
	st.PutVisitor(pendingVisitor("12345"))

	_, err := svc.Approve("12345", "admin")
	require.NoError(t, err)

	_, err = svc.Reject("12345", "admin")
	assert.ErrorIs(t, err, ErrNotPending, "approved records cannot be rejected afterwards")

	stored, _ := st.GetVisitor("12345")
	assert.Equal(t, models.VisitorStatusApproved, stored.Status)
}

func TestApproveSendsOutcomeMail(t *testing.T) {
	st, svc, gateway, notifier := newApprovalFixture(t)

	v := pendingVisitor("12345")
	v.Email = "aisha@example.com"
	st.PutVisitor(v)

	_, err := svc.Approve("12345", "admin")
	require.NoError(t, err)

	notifier.Close()

	require.Len(t, gateway.messages, 1)
	assert.Equal(t, "aisha@example.com", gateway.messages[0].To)
	assert.Contains(t, gateway.messages[0].Text, "12345")
}
