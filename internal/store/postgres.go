package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftplan/shiftplan/internal/database"
	"github.com/shiftplan/shiftplan/pkg/apperr"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// PostgresStore is the lib/pq-backed Store implementation. The schema below
// is logical only; no migration tooling is part of this module.
type PostgresStore struct {
	db       *database.DB
	holidays HolidayOracle
}

// NewPostgresStore builds a PostgresStore over an already-connected pool.
func NewPostgresStore(db *database.DB, holidays HolidayOracle) *PostgresStore {
	return &PostgresStore{db: db, holidays: holidays}
}

func (s *PostgresStore) LoadProblemInstance(ctx context.Context, month string) (*ProblemInstance, error) {
	start, err := model.ParseISODate(month + "-01")
	if err != nil {
		return nil, apperr.New(apperr.CodeInvalidInput, "invalid target month "+month)
	}

	instance := &ProblemInstance{
		TargetMonth:     month,
		WorkDaysTargets: make(map[int64]model.WorkDaysTarget),
	}

	empRows, err := s.db.QueryContext(ctx, `
		SELECT id, name, employment_type, sort_order, work_days_target
		FROM employees
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer empRows.Close()

	for empRows.Next() {
		e := &model.Employee{}
		var target sql.NullString
		if err := empRows.Scan(&e.ID, &e.Name, &e.EmploymentType, &e.SortOrder, &target); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		if target.Valid {
			instance.WorkDaysTargets[e.ID] = model.WorkDaysTarget(target.String)
		}

		qualRows, err := s.db.QueryContext(ctx, `SELECT job_category_id FROM qualifications WHERE employee_id = $1`, e.ID)
		if err != nil {
			return nil, fmt.Errorf("querying qualifications for employee %d: %w", e.ID, err)
		}
		for qualRows.Next() {
			var categoryID int
			if err := qualRows.Scan(&categoryID); err != nil {
				qualRows.Close()
				return nil, fmt.Errorf("scanning qualification: %w", err)
			}
			e.Qualifications = append(e.Qualifications, categoryID)
		}
		qualRows.Close()

		instance.Employees = append(instance.Employees, e)
	}

	reqRows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, date, period, note
		FROM day_off_requests
		WHERE date >= $1 AND date < ($1::date + interval '1 month')
	`, start)
	if err != nil {
		return nil, fmt.Errorf("querying day-off requests: %w", err)
	}
	defer reqRows.Close()
	for reqRows.Next() {
		r := &model.DayOffRequest{}
		var note sql.NullString
		if err := reqRows.Scan(&r.EmployeeID, &r.Date, &r.Period, &note); err != nil {
			return nil, fmt.Errorf("scanning day-off request: %w", err)
		}
		r.Note = note.String
		instance.DayOffRequests = append(instance.DayOffRequests, r)
	}

	reqmtRows, err := s.db.QueryContext(ctx, `
		SELECT date, job_category_id, required_count
		FROM daily_requirements
		WHERE date >= $1 AND date < ($1::date + interval '1 month')
	`, start)
	if err != nil {
		return nil, fmt.Errorf("querying daily requirements: %w", err)
	}
	defer reqmtRows.Close()
	for reqmtRows.Next() {
		r := &model.DailyRequirement{}
		var requiredCount string
		if err := reqmtRows.Scan(&r.Date, &r.JobCategoryID, &requiredCount); err != nil {
			return nil, fmt.Errorf("scanning daily requirement: %w", err)
		}
		count, err := decimal.NewFromString(requiredCount)
		if err != nil {
			return nil, fmt.Errorf("parsing required_count %q: %w", requiredCount, err)
		}
		r.RequiredCount = count
		instance.DailyRequirements = append(instance.DailyRequirements, r)
	}

	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		if !s.holidays.IsNonWorkingDay(d) {
			instance.WorkingDates = append(instance.WorkingDates, d)
		}
	}

	return instance, nil
}

func (s *PostgresStore) PersistSchedule(ctx context.Context, schedule *model.Schedule, assignments []*model.Assignment) (int64, error) {
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if schedule.GeneratedAt.IsZero() {
			schedule.GeneratedAt = time.Now()
		}
		row := tx.QueryRowContext(ctx, `
			INSERT INTO schedules (target_month, status, generated_at, confirmed_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, schedule.TargetMonth, schedule.Status, schedule.GeneratedAt, schedule.ConfirmedAt)
		if err := row.Scan(&schedule.ID); err != nil {
			return fmt.Errorf("inserting schedule: %w", err)
		}

		for _, a := range assignments {
			a.ScheduleID = schedule.ID
			if err := insertAssignment(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return schedule.ID, nil
}

func insertAssignment(ctx context.Context, tx *sql.Tx, a *model.Assignment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (schedule_id, employee_id, date, job_category_id, work_type, headcount_value)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ScheduleID, a.EmployeeID, a.Date, a.JobCategoryID, a.WorkType, a.HeadcountValue.String())
	if err != nil {
		return fmt.Errorf("inserting assignment for employee %d on %s: %w", a.EmployeeID, model.ISODate(a.Date), err)
	}
	return nil
}

func (s *PostgresStore) CloneSchedule(ctx context.Context, oldID int64) (int64, error) {
	var newID int64
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		old, err := scanScheduleRow(tx.QueryRowContext(ctx, `
			SELECT id, target_month, status, generated_at, confirmed_at FROM schedules WHERE id = $1
		`, oldID))
		if err != nil {
			return err
		}
		if old == nil {
			return apperr.UnknownSchedule(oldID)
		}

		row := tx.QueryRowContext(ctx, `
			INSERT INTO schedules (target_month, status, generated_at, confirmed_at)
			VALUES ($1, 'preview', now(), NULL)
			RETURNING id
		`, old.TargetMonth)
		if err := row.Scan(&newID); err != nil {
			return fmt.Errorf("inserting cloned schedule: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO assignments (schedule_id, employee_id, date, job_category_id, work_type, headcount_value)
			SELECT $1, employee_id, date, job_category_id, work_type, headcount_value
			FROM assignments WHERE schedule_id = $2
		`, newID, oldID)
		if err != nil {
			return fmt.Errorf("cloning assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func (s *PostgresStore) DeleteSchedule(ctx context.Context, id int64) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE schedule_id = $1`, id); err != nil {
			return fmt.Errorf("deleting assignments: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting schedule: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return apperr.UnknownSchedule(id)
		}
		return nil
	})
}

func (s *PostgresStore) GetSchedule(ctx context.Context, id int64) (*model.Schedule, error) {
	sched, err := scanScheduleRow(s.db.QueryRowContext(ctx, `
		SELECT id, target_month, status, generated_at, confirmed_at FROM schedules WHERE id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, apperr.UnknownSchedule(id)
	}
	return sched, nil
}

func (s *PostgresStore) GetCurrentSchedule(ctx context.Context, month string) (*model.Schedule, error) {
	sched, err := scanScheduleRow(s.db.QueryRowContext(ctx, `
		SELECT id, target_month, status, generated_at, confirmed_at
		FROM schedules WHERE target_month = $1
		ORDER BY id DESC LIMIT 1
	`, month))
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, apperr.New(apperr.CodeUnknownSchedule, "no schedule for month "+month)
	}
	return sched, nil
}

func (s *PostgresStore) UpdateScheduleStatus(ctx context.Context, id int64, newStatus model.ScheduleStatus) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		sched, err := scanScheduleRow(tx.QueryRowContext(ctx, `
			SELECT id, target_month, status, generated_at, confirmed_at FROM schedules WHERE id = $1 FOR UPDATE
		`, id))
		if err != nil {
			return err
		}
		if sched == nil {
			return apperr.UnknownSchedule(id)
		}
		if err := sched.Transition(newStatus); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE schedules SET status = $2, confirmed_at = $3 WHERE id = $1
		`, id, sched.Status, sched.ConfirmedAt)
		if err != nil {
			return fmt.Errorf("updating schedule status: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) GetAssignments(ctx context.Context, scheduleID int64) ([]*model.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT schedule_id, employee_id, date, job_category_id, work_type, headcount_value
		FROM assignments WHERE schedule_id = $1
		ORDER BY employee_id, date
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	var out []*model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *PostgresStore) SetAssignment(ctx context.Context, assignment *model.Assignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (schedule_id, employee_id, date, job_category_id, work_type, headcount_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (schedule_id, employee_id, date)
		DO UPDATE SET job_category_id = $4, work_type = $5, headcount_value = $6
	`, assignment.ScheduleID, assignment.EmployeeID, assignment.Date, assignment.JobCategoryID,
		assignment.WorkType, assignment.HeadcountValue.String())
	if err != nil {
		return fmt.Errorf("upserting assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePatchLog(ctx context.Context, log *model.PatchLog) (int64, error) {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO nlp_modification_logs (schedule_id, new_schedule_id, input_text, parsed_edits_json, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, log.ScheduleID, log.NewScheduleID, log.InputText, log.ParsedEditsJSON, log.Status, log.CreatedAt)
	if err := row.Scan(&log.ID); err != nil {
		return 0, fmt.Errorf("inserting patch log: %w", err)
	}
	return log.ID, nil
}

func (s *PostgresStore) GetPatchLog(ctx context.Context, id int64) (*model.PatchLog, error) {
	log := &model.PatchLog{}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, schedule_id, new_schedule_id, input_text, parsed_edits_json, status, created_at
		FROM nlp_modification_logs WHERE id = $1
	`, id)
	err := row.Scan(&log.ID, &log.ScheduleID, &log.NewScheduleID, &log.InputText, &log.ParsedEditsJSON, &log.Status, &log.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.CodeInvalidInput, "unknown patch log id")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning patch log: %w", err)
	}
	return log, nil
}

func (s *PostgresStore) UpdatePatchLog(ctx context.Context, log *model.PatchLog) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE nlp_modification_logs SET new_schedule_id = $2, status = $3 WHERE id = $1
	`, log.ID, log.NewScheduleID, log.Status)
	if err != nil {
		return fmt.Errorf("updating patch log: %w", err)
	}
	return nil
}

func (s *PostgresStore) EmployeeByName(ctx context.Context, name string) (*model.Employee, error) {
	e := &model.Employee{}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, employment_type, sort_order FROM employees WHERE name = $1
	`, name)
	err := row.Scan(&e.ID, &e.Name, &e.EmploymentType, &e.SortOrder)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.CodeInvalidInput, "unknown employee "+name)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning employee by name: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) JobCategoryByName(ctx context.Context, name string) (*model.JobCategory, error) {
	c := &model.JobCategory{}
	var color sql.NullString
	row := s.db.QueryRowContext(ctx, `SELECT id, name, color FROM job_categories WHERE name = $1`, name)
	err := row.Scan(&c.ID, &c.Name, &color)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.CodeInvalidInput, "unknown job category "+name)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning job category by name: %w", err)
	}
	c.Color = color.String
	return c, nil
}

func (s *PostgresStore) JobCategories(ctx context.Context) ([]*model.JobCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM job_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying job categories: %w", err)
	}
	defer rows.Close()

	var out []*model.JobCategory
	for rows.Next() {
		c := &model.JobCategory{}
		var color sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &color); err != nil {
			return nil, fmt.Errorf("scanning job category: %w", err)
		}
		c.Color = color.String
		out = append(out, c)
	}
	return out, nil
}

func scanScheduleRow(row *sql.Row) (*model.Schedule, error) {
	s := &model.Schedule{}
	var confirmedAt sql.NullTime
	err := row.Scan(&s.ID, &s.TargetMonth, &s.Status, &s.GeneratedAt, &confirmedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	if confirmedAt.Valid {
		s.ConfirmedAt = &confirmedAt.Time
	}
	return s, nil
}

func scanAssignment(rows *sql.Rows) (*model.Assignment, error) {
	a := &model.Assignment{}
	var jobCategoryID sql.NullInt64
	var headcount string
	if err := rows.Scan(&a.ScheduleID, &a.EmployeeID, &a.Date, &jobCategoryID, &a.WorkType, &headcount); err != nil {
		return nil, fmt.Errorf("scanning assignment: %w", err)
	}
	if jobCategoryID.Valid {
		id := int(jobCategoryID.Int64)
		a.JobCategoryID = &id
	}
	count, err := decimal.NewFromString(headcount)
	if err != nil {
		return nil, fmt.Errorf("parsing headcount_value %q: %w", headcount, err)
	}
	a.HeadcountValue = count
	return a, nil
}
