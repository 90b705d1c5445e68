package store

import (
	"encoding/json"
	"sort"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// HydrateFrom warms the in-memory tables from the persistence mirror at
// boot. Hydration is best-effort like every mirror interaction: a
// missing or failing backend degrades to an empty start. Documents that
// fail to decode are skipped with a warning.
func (s *Store) HydrateFrom(m *mirror.Mirror, logger *logrus.Logger) {
	m.Hydrate(CollectionVisitors, func(doc []byte) {
		var v models.Visitor
		if err := json.Unmarshal(doc, &v); err != nil {
			logger.Warnf("Skipping malformed visitor document: %v", err)
			return
		}
		s.PutVisitor(&v)
	})

	m.Hydrate(CollectionBlacklist, func(doc []byte) {
		var rec models.BlacklistRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			logger.Warnf("Skipping malformed blacklist document: %v", err)
			return
		}
		s.PutBlacklistRecord(&rec)
	})

	m.Hydrate(CollectionVips, func(doc []byte) {
		var rec models.VipRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			logger.Warnf("Skipping malformed vip document: %v", err)
			return
		}
		s.PutVipRecord(&rec)
	})

	m.Hydrate(CollectionAccessLogs, func(doc []byte) {
		var entry models.AccessLog
		if err := json.Unmarshal(doc, &entry); err != nil {
			logger.Warnf("Skipping malformed access-log document: %v", err)
			return
		}
		s.AppendAccessLog(&entry)
	})

	m.Hydrate(CollectionLPRLogs, func(doc []byte) {
		var entry models.LPRLog
		if err := json.Unmarshal(doc, &entry); err != nil {
			logger.Warnf("Skipping malformed lpr-log document: %v", err)
			return
		}
		s.AppendLPRLog(&entry)
	})

	m.Hydrate(CollectionScanRecords, func(doc []byte) {
		var rec models.LprScanRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			logger.Warnf("Skipping malformed scan-record document: %v", err)
			return
		}
		s.putScanRecord(&rec)
	})

	// Mirror reads come back unordered; restore insertion order for the
	// append-only logs.
	s.sortLogs()

	logger.WithFields(logrus.Fields{
		"visitors":  len(s.visitors),
		"blacklist": len(s.blacklist),
		"vips":      len(s.vips),
	}).Info("Store hydrated from mirror")
}

func (s *Store) putScanRecord(rec *models.LprScanRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanRecords[access.NormalizePlate(rec.Plate)] = rec
}

func (s *Store) sortLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.Slice(s.accessLogs, func(i, j int) bool {
		return s.accessLogs[i].Timestamp.Before(s.accessLogs[j].Timestamp)
	})
	sort.Slice(s.lprLogs, func(i, j int) bool {
		return s.lprLogs[i].Timestamp.Before(s.lprLogs[j].Timestamp)
	})
}
