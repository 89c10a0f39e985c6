package performance

import (
	"context"
	"testing"
	"time"

	"vesta-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Grant{},
		&models.VestingEvent{},
		&models.PerformanceMetric{},
		&models.VestingMilestone{},
	))
	return db
}

func f64(v float64) *float64 { return &v }

func seedGrant(t *testing.T, db *gorm.DB, scheduleID *uuid.UUID) models.Grant {
	t.Helper()
	grant := models.Grant{
		EmployeeID:        uuid.New(),
		CompanyID:         uuid.New(),
		PlanID:            uuid.New(),
		PlanType:          models.PlanTypeRSU,
		TotalShares:       10000,
		UnvestedShares:    10000,
		Status:            models.GrantStatusActive,
		VestingScheduleID: scheduleID,
	}
	require.NoError(t, db.Create(&grant).Error)
	return grant
}

func seedEvent(t *testing.T, db *gorm.DB, grant models.Grant, eventType string, seq int) models.VestingEvent {
	t.Helper()
	ev := models.VestingEvent{
		GrantID:        grant.GrantID,
		EmployeeID:     grant.EmployeeID,
		CompanyID:      grant.CompanyID,
		EventType:      eventType,
		SequenceNumber: seq,
		VestingDate:    time.Now(),
		SharesToVest:   100,
		Status:         models.EventStatusDue,
	}
	require.NoError(t, db.Create(&ev).Error)
	return ev
}

func TestIsGatedType(t *testing.T) {
	assert.True(t, IsGatedType(models.EventTypePerformance))
	assert.True(t, IsGatedType("performance_based"))
	assert.True(t, IsGatedType("hybrid"))
	assert.False(t, IsGatedType(models.EventTypeTimeBased))
	assert.False(t, IsGatedType(models.EventTypeCliff))
}

func TestResolveGrantLevelMetrics(t *testing.T) {
	db := newTestDB(t)
	grant := seedGrant(t, db, nil)
	metric := models.PerformanceMetric{
		GrantID:     grant.GrantID,
		Name:        "ARR growth",
		TargetValue: f64(2000000),
	}
	require.NoError(t, db.Create(&metric).Error)

	gated := seedEvent(t, db, grant, models.EventTypePerformance, 1)
	ungated := seedEvent(t, db, grant, models.EventTypeTimeBased, 2)

	linker := &Linker{DB: db}
	res, err := linker.Resolve(context.Background(), []models.VestingEvent{gated, ungated})
	require.NoError(t, err)

	g := res[gated.EventID]
	assert.True(t, g.GrantHasLinkedPerformanceMetrics)
	assert.True(t, g.RequiresPerformanceConfirmation)
	require.Len(t, g.Metrics, 1)
	assert.Equal(t, "ARR growth", g.Metrics[0].Name)
	assert.False(t, g.Metrics[0].FromMilestone)

	u := res[ungated.EventID]
	assert.True(t, u.GrantHasLinkedPerformanceMetrics)
	assert.False(t, u.RequiresPerformanceConfirmation)
}

func TestResolveMatchesMilestoneBySequence(t *testing.T) {
	db := newTestDB(t)
	scheduleID := uuid.New()
	grant := seedGrant(t, db, &scheduleID)
	metric := models.PerformanceMetric{
		GrantID:     grant.GrantID,
		Name:        "Revenue target",
		TargetValue: f64(100),
	}
	require.NoError(t, db.Create(&metric).Error)

	// One metric reused across two schedule positions with different targets.
	achieved := time.Now().AddDate(0, -1, 0)
	require.NoError(t, db.Create(&models.VestingMilestone{
		VestingScheduleID: scheduleID,
		SequenceNumber:    2,
		MetricID:          metric.MetricID,
		TargetValue:       f64(500),
		ActualValue:       f64(620),
		AchievedAt:        &achieved,
	}).Error)

	first := seedEvent(t, db, grant, models.EventTypePerformance, 1)
	second := seedEvent(t, db, grant, models.EventTypePerformance, 2)

	linker := &Linker{DB: db}
	res, err := linker.Resolve(context.Background(), []models.VestingEvent{first, second})
	require.NoError(t, err)

	r1 := res[first.EventID]
	require.Len(t, r1.Metrics, 1)
	assert.False(t, r1.Metrics[0].FromMilestone)
	assert.Equal(t, 100.0, *r1.Metrics[0].TargetValue)

	r2 := res[second.EventID]
	require.Len(t, r2.Metrics, 1)
	assert.True(t, r2.Metrics[0].FromMilestone)
	assert.Equal(t, 500.0, *r2.Metrics[0].TargetValue)
	assert.Equal(t, 620.0, *r2.Metrics[0].ActualValue)
	require.NotNil(t, r2.Metrics[0].AchievedAt)
}

func TestResolveMilestoneOutsideLinkedSetAppended(t *testing.T) {
	db := newTestDB(t)
	scheduleID := uuid.New()
	grant := seedGrant(t, db, &scheduleID)

	orphanMetricID := uuid.New()
	require.NoError(t, db.Create(&models.VestingMilestone{
		VestingScheduleID: scheduleID,
		SequenceNumber:    1,
		MetricID:          orphanMetricID,
		TargetValue:       f64(42),
	}).Error)

	ev := seedEvent(t, db, grant, models.EventTypePerformance, 1)

	linker := &Linker{DB: db}
	res, err := linker.Resolve(context.Background(), []models.VestingEvent{ev})
	require.NoError(t, err)

	r := res[ev.EventID]
	assert.False(t, r.GrantHasLinkedPerformanceMetrics)
	assert.False(t, r.RequiresPerformanceConfirmation)
	require.Len(t, r.Metrics, 1)
	assert.Equal(t, orphanMetricID, r.Metrics[0].MetricID)
	assert.True(t, r.Metrics[0].FromMilestone)
}

func TestResolveNoMetrics(t *testing.T) {
	db := newTestDB(t)
	grant := seedGrant(t, db, nil)
	ev := seedEvent(t, db, grant, models.EventTypeTimeBased, 1)

	linker := &Linker{DB: db}
	res, err := linker.Resolve(context.Background(), []models.VestingEvent{ev})
	require.NoError(t, err)

	r := res[ev.EventID]
	assert.False(t, r.GrantHasLinkedPerformanceMetrics)
	assert.Empty(t, r.Metrics)
}

func TestResolveEmptyInput(t *testing.T) {
	linker := &Linker{DB: newTestDB(t)}
	res, err := linker.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestResolveUnknownGrant(t *testing.T) {
	db := newTestDB(t)
	ev := models.VestingEvent{
		GrantID:      uuid.New(),
		EmployeeID:   uuid.New(),
		CompanyID:    uuid.New(),
		EventType:    models.EventTypeTimeBased,
		VestingDate:  time.Now(),
		SharesToVest: 100,
		Status:       models.EventStatusDue,
	}
	require.NoError(t, db.Create(&ev).Error)

	linker := &Linker{DB: db}
	res, err := linker.Resolve(context.Background(), []models.VestingEvent{ev})
	require.NoError(t, err)
	assert.Equal(t, Resolution{}, res[ev.EventID])
}
