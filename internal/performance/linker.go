package performance

import (
	"context"
	"time"

	"vesta-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Event types whose payout is gated on a performance condition.
var gatedTypes = map[string]bool{
	models.EventTypePerformance: true,
	"performance_based":         true,
	"hybrid":                    true,
}

// IsGatedType reports whether eventType requires a performance confirmation
// before the event may vest.
func IsGatedType(eventType string) bool {
	return gatedTypes[eventType]
}

// MetricSummary is one resolved target/actual pair for an event.
type MetricSummary struct {
	MetricID      uuid.UUID  `json:"metric_id"`
	Name          string     `json:"name"`
	TargetValue   *float64   `json:"target_value"`
	ActualValue   *float64   `json:"actual_value"`
	Unit          *string    `json:"unit"`
	AchievedAt    *time.Time `json:"achieved_at"`
	FromMilestone bool       `json:"from_milestone"`
}

// Resolution is the per-event output of Resolve.
type Resolution struct {
	GrantHasLinkedPerformanceMetrics bool            `json:"grant_has_linked_performance_metrics"`
	RequiresPerformanceConfirmation  bool            `json:"requires_performance_confirmation"`
	Metrics                          []MetricSummary `json:"metrics"`
}

type Linker struct {
	DB *gorm.DB
}

// Resolve attaches performance metric summaries to a batch of events.
// Read-only: metrics are collected per grant in one query, milestones for all
// referenced schedules in another, then matched to each event by
// (vesting_schedule_id, sequence_number) — not by metric id, since a schedule
// may reuse one metric across positions with different targets. A milestone
// lookup failure degrades to metric-only summaries instead of failing the
// listing.
func (l *Linker) Resolve(ctx context.Context, events []models.VestingEvent) (map[uuid.UUID]Resolution, error) {
	out := make(map[uuid.UUID]Resolution, len(events))
	if len(events) == 0 {
		return out, nil
	}

	grantIDSet := map[uuid.UUID]bool{}
	for _, ev := range events {
		grantIDSet[ev.GrantID] = true
	}
	grantIDs := make([]uuid.UUID, 0, len(grantIDSet))
	for id := range grantIDSet {
		grantIDs = append(grantIDs, id)
	}

	var grants []models.Grant
	if err := l.DB.WithContext(ctx).Where("grant_id IN ?", grantIDs).Find(&grants).Error; err != nil {
		return nil, err
	}
	grantByID := make(map[uuid.UUID]models.Grant, len(grants))
	scheduleIDSet := map[uuid.UUID]bool{}
	for _, g := range grants {
		grantByID[g.GrantID] = g
		if g.VestingScheduleID != nil {
			scheduleIDSet[*g.VestingScheduleID] = true
		}
	}

	var metrics []models.PerformanceMetric
	if err := l.DB.WithContext(ctx).Where("grant_id IN ?", grantIDs).Find(&metrics).Error; err != nil {
		return nil, err
	}
	// Deduplicate by metric id per grant.
	metricsByGrant := map[uuid.UUID][]models.PerformanceMetric{}
	seen := map[uuid.UUID]bool{}
	for _, m := range metrics {
		if seen[m.MetricID] {
			continue
		}
		seen[m.MetricID] = true
		metricsByGrant[m.GrantID] = append(metricsByGrant[m.GrantID], m)
	}

	// Milestones for all referenced schedules in one batched lookup. Errors
	// here must not abort the event listing.
	type milestoneKey struct {
		ScheduleID uuid.UUID
		Sequence   int
	}
	milestoneByKey := map[milestoneKey]models.VestingMilestone{}
	if len(scheduleIDSet) > 0 {
		ids := make([]uuid.UUID, 0, len(scheduleIDSet))
		for id := range scheduleIDSet {
			ids = append(ids, id)
		}
		var milestones []models.VestingMilestone
		if err := l.DB.WithContext(ctx).Where("vesting_schedule_id IN ?", ids).Find(&milestones).Error; err != nil {
			log.Warn().Err(err).Int("schedules", len(ids)).Msg("milestone lookup failed; events degrade to metric-only summaries")
		} else {
			for _, ms := range milestones {
				milestoneByKey[milestoneKey{ms.VestingScheduleID, ms.SequenceNumber}] = ms
			}
		}
	}

	for _, ev := range events {
		grant, ok := grantByID[ev.GrantID]
		if !ok {
			out[ev.EventID] = Resolution{}
			continue
		}
		linked := metricsByGrant[grant.GrantID]
		res := Resolution{
			GrantHasLinkedPerformanceMetrics: len(linked) > 0,
			RequiresPerformanceConfirmation:  len(linked) > 0 && IsGatedType(ev.EventType),
		}
		for _, m := range linked {
			res.Metrics = append(res.Metrics, MetricSummary{
				MetricID:    m.MetricID,
				Name:        m.Name,
				TargetValue: m.TargetValue,
				ActualValue: m.ActualValue,
				Unit:        m.Unit,
				AchievedAt:  m.AchievedAt,
			})
		}

		if grant.VestingScheduleID != nil {
			key := milestoneKey{*grant.VestingScheduleID, ev.SequenceNumber}
			if ms, ok := milestoneByKey[key]; ok {
				res.mergeMilestone(ms)
			}
		}
		out[ev.EventID] = res
	}
	return out, nil
}

// mergeMilestone folds milestone values into the summary for the milestone's
// metric, preferring milestone data over the grant-level placeholders. A
// milestone referencing a metric outside the grant's linked set is appended
// as its own summary.
func (r *Resolution) mergeMilestone(ms models.VestingMilestone) {
	for i := range r.Metrics {
		if r.Metrics[i].MetricID != ms.MetricID {
			continue
		}
		if ms.TargetValue != nil {
			r.Metrics[i].TargetValue = ms.TargetValue
		}
		if ms.ActualValue != nil {
			r.Metrics[i].ActualValue = ms.ActualValue
		}
		if ms.AchievedAt != nil {
			r.Metrics[i].AchievedAt = ms.AchievedAt
		}
		r.Metrics[i].FromMilestone = true
		return
	}
	r.Metrics = append(r.Metrics, MetricSummary{
		MetricID:      ms.MetricID,
		TargetValue:   ms.TargetValue,
		ActualValue:   ms.ActualValue,
		AchievedAt:    ms.AchievedAt,
		FromMilestone: true,
	})
}
