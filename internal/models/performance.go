package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PerformanceMetric is a target/actual value pair linked to a grant.
// Read-only from this service's perspective.
type PerformanceMetric struct {
	MetricID    uuid.UUID  `gorm:"column:metric_id;type:uuid;primaryKey" json:"metric_id"`
	GrantID     uuid.UUID  `gorm:"column:grant_id;type:uuid;not null" json:"grant_id"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	TargetValue *float64   `gorm:"column:target_value;type:decimal(18,2)" json:"target_value"`
	ActualValue *float64   `gorm:"column:actual_value;type:decimal(18,2)" json:"actual_value"`
	Unit        *string    `gorm:"column:unit" json:"unit"`
	AchievedAt  *time.Time `gorm:"column:achieved_at" json:"achieved_at"`
	CreatedAt   time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (PerformanceMetric) TableName() string {
	return "PerformanceMetrics"
}

func (m *PerformanceMetric) BeforeCreate(tx *gorm.DB) error {
	if m.MetricID == uuid.Nil {
		m.MetricID = uuid.New()
	}
	return nil
}

// VestingMilestone pins a metric to one sequence position in a vesting
// schedule. Matched to events by (vesting_schedule_id, sequence_number), not
// by metric id — a schedule may reuse a metric across positions with
// different targets.
type VestingMilestone struct {
	MilestoneID       uuid.UUID  `gorm:"column:milestone_id;type:uuid;primaryKey" json:"milestone_id"`
	VestingScheduleID uuid.UUID  `gorm:"column:vesting_schedule_id;type:uuid;not null" json:"vesting_schedule_id"`
	SequenceNumber    int        `gorm:"column:sequence_number;not null" json:"sequence_number"`
	MetricID          uuid.UUID  `gorm:"column:metric_id;type:uuid;not null" json:"metric_id"`
	TargetValue       *float64   `gorm:"column:target_value;type:decimal(18,2)" json:"target_value"`
	ActualValue       *float64   `gorm:"column:actual_value;type:decimal(18,2)" json:"actual_value"`
	AchievedAt        *time.Time `gorm:"column:achieved_at" json:"achieved_at"`
	CreatedAt         time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (VestingMilestone) TableName() string {
	return "VestingMilestones"
}

func (m *VestingMilestone) BeforeCreate(tx *gorm.DB) error {
	if m.MilestoneID == uuid.Nil {
		m.MilestoneID = uuid.New()
	}
	return nil
}
