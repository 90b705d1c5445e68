package models

import (
	"time"
)

// VipType distinguishes ordinary VIPs from VVIPs
type VipType string

const (
	VipTypeVIP  VipType = "VIP"
	VipTypeVVIP VipType = "VVIP"
)

// VipStatus represents the lifecycle state of a VIP profile
type VipStatus string

const (
	VipStatusActive      VipStatus = "ACTIVE"
	VipStatusDeactivated VipStatus = "DEACTIVATED"
)

// VipRecord is a standing priority-access profile keyed by license plate,
// independent of the visitor registration flow. It matches only while
// ACTIVE and within its [ValidFrom, ValidUntil] window.
type VipRecord struct {
	ID            string    `json:"id"`
	VipType       VipType   `json:"vip_type"`
	Designation   string    `json:"designation"`
	Name          string    `json:"name"`
	Contact       string    `json:"contact"`
	ICNumber      string    `json:"ic_number,omitempty"`
	LicensePlate  string    `json:"license_plate"`
	VehicleColor  string    `json:"vehicle_color,omitempty"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
	AutoApprove   bool      `json:"auto_approve"`
	AutoOpenGate  bool      `json:"auto_open_gate"`
	Reason        string    `json:"reason"`
	Status        VipStatus `json:"status"`
	LastEntryTime *time.Time `json:"last_entry_time,omitempty"`
	LastExitTime  *time.Time `json:"last_exit_time,omitempty"`

	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsValidAt reports whether the profile is ACTIVE and within its validity
// window at the given instant.
func (v *VipRecord) IsValidAt(now time.Time) bool {
	if v.Status != VipStatusActive {
		return false
	}
	return !now.Before(v.ValidFrom) && !now.After(v.ValidUntil)
}
