package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// PlanRepository is a database-backed repository for meal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a new meal plan and returns its id.
// A zero WeekStart is derived from the plan's earliest day.
func (r *PlanRepository) Save(ctx context.Context, userID string, plan *MealPlan) (int64, error) {
	if len(plan.Days) == 0 {
		return 0, fmt.Errorf("failed to save meal plan: plan has no days")
	}

	planData, err := json.Marshal(plan.Days)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal meal plan days: %w", err)
	}

	weekStart := plan.WeekStart
	if weekStart.IsZero() {
		weekStart = earliestDate(plan.Days)
	}
	status := plan.Status
	if status == "" {
		status = StatusDraft
	}
	createdAt := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, week_start, status, plan_data, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, DateOnly(weekStart).Format(dateLayout), string(status), string(planData), createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal plan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read meal plan id: %w", err)
	}

	plan.ID = id
	plan.UserID = userID
	plan.WeekStart = DateOnly(weekStart)
	plan.Status = status
	plan.CreatedAt = createdAt
	return id, nil
}

// ExistsForWeek reports whether the user already has a plan starting on weekStart.
func (r *PlanRepository) ExistsForWeek(ctx context.Context, userID string, weekStart time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meal_plans WHERE user_id = ? AND week_start = ?`,
		userID, DateOnly(weekStart).Format(dateLayout),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check meal plan for week: %w", err)
	}
	return count > 0, nil
}

// ListRecentByUserID retrieves the N most recent meal plans for a given user.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]MealPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, week_start, status, plan_data, created_at FROM meal_plans
		 WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanPlans(rows)
}

// ListDays returns the user's planned days whose date lies in [from, to], ordered by date.
// When several plans cover the same date, the most recently saved plan wins.
func (r *PlanRepository) ListDays(ctx context.Context, userID string, from, to time.Time) ([]DayPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, week_start, status, plan_data, created_at FROM meal_plans
		 WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	plans, err := scanPlans(rows)
	if err != nil {
		return nil, err
	}

	from, to = DateOnly(from), DateOnly(to)
	byDate := make(map[time.Time]DayPlan)
	for _, p := range plans {
		for _, d := range p.Days {
			date := DateOnly(d.Date)
			if date.Before(from) || date.After(to) {
				continue
			}
			byDate[date] = d
		}
	}

	days := make([]DayPlan, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days, nil
}

func scanPlans(rows *sql.Rows) ([]MealPlan, error) {
	var plans []MealPlan
	for rows.Next() {
		var p MealPlan
		var weekStart, status, data, created string
		if err := rows.Scan(&p.ID, &p.UserID, &weekStart, &status, &data, &created); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}

		if err := json.Unmarshal([]byte(data), &p.Days); err != nil {
			log.Warn().Err(err).Int64("plan_id", p.ID).Msg("Failed to unmarshal meal plan days")
			continue
		}
		p.Status = PlanStatus(status)
		p.WeekStart, _ = time.Parse(dateLayout, weekStart)
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal plan rows: %w", err)
	}
	return plans, nil
}

func earliestDate(days []DayPlan) time.Time {
	earliest := days[0].Date
	for _, d := range days[1:] {
		if d.Date.Before(earliest) {
			earliest = d.Date
		}
	}
	return earliest
}
