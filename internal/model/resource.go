package model

import "time"

// ResourceType is the fixed enumeration of bookable asset kinds.
type ResourceType string

const (
	ResourceTypePhysicalRoom    ResourceType = "physical_room"
	ResourceTypeOnlineMeeting   ResourceType = "online_meeting"
	ResourceTypeEquipment       ResourceType = "equipment"
	ResourceTypeVehicle         ResourceType = "vehicle"
	ResourceTypeSportsFacility  ResourceType = "sports_facility"
	ResourceTypeInstrument      ResourceType = "instrument"
	ResourceTypeSoftwareLicense ResourceType = "software_license"
)

// ResourceTypes lists every valid type.
var ResourceTypes = []ResourceType{
	ResourceTypePhysicalRoom,
	ResourceTypeOnlineMeeting,
	ResourceTypeEquipment,
	ResourceTypeVehicle,
	ResourceTypeSportsFacility,
	ResourceTypeInstrument,
	ResourceTypeSoftwareLicense,
}

// Valid reports whether t is one of the enumerated types.
func (t ResourceType) Valid() bool {
	for _, known := range ResourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Resource is a bookable asset owned by a school.
type Resource struct {
	ID       int64        `gorm:"primaryKey" json:"id"`
	SchoolID int64        `gorm:"index;not null" json:"school_id"`
	Name     string       `gorm:"size:256;not null" json:"name"`
	Type     ResourceType `gorm:"column:resource_type;size:32;not null;index" json:"resource_type"`
	Capacity int          `gorm:"not null" json:"capacity"`
	IsActive bool         `gorm:"not null;default:true" json:"is_active"`

	Location        *string `gorm:"size:256" json:"location,omitempty"`
	MeetingURL      *string `gorm:"size:512" json:"meeting_url,omitempty"`
	MeetingPlatform *string `gorm:"size:64" json:"meeting_platform,omitempty"`

	Features FeatureMap `gorm:"type:text" json:"features"`

	// Booking rules. Durations and buffers are in minutes.
	MinBookingDuration int `gorm:"not null" json:"min_booking_duration"`
	MaxBookingDuration int `gorm:"not null" json:"max_booking_duration"`
	BufferTimeBefore   int `gorm:"not null" json:"buffer_time_before"`
	BufferTimeAfter    int `gorm:"not null" json:"buffer_time_after"`
	AdvanceBookingDays int `gorm:"not null" json:"advance_booking_days"`

	CostPerHour  *float64 `json:"cost_per_hour,omitempty"`
	CostCurrency *string  `gorm:"size:8" json:"cost_currency,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	School School `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
