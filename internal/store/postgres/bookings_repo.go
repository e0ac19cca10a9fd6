package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"consulta/backend/internal/domain"
	"consulta/backend/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

// InProfessionalTransaction serializes all appointment writers for one
// professional with a transaction-scoped advisory lock, so the
// check-then-create sequence cannot race into a double booking.
func (r *BookingRepo) InProfessionalTransaction(ctx context.Context, professionalID string, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProfessionalSchedule(ctx, tx, professionalID); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockProfessionalSchedule(ctx context.Context, tx bun.Tx, professionalID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", professionalID).Exec(ctx)
	return err
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *BookingRepo) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("patient_id = ?", patientID).
		OrderExpr("start_time ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("professional_id = ?", professionalID).
		OrderExpr("start_time ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListByProfessionalRange(ctx context.Context, professionalID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("professional_id = ?", professionalID).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t bookingTx) FindConflicts(ctx context.Context, professionalID string, slot domain.Interval, excludeID uuid.UUID) ([]domain.Appointment, error) {
	q := t.tx.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("professional_id = ?", professionalID).
		Where("status != ?", domain.AppointmentStatusCancelled).
		Where("start_time < ?", slot.End).
		Where("end_time > ?", slot.Start).
		OrderExpr("start_time ASC")
	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}

	var rows []domain.Appointment
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t bookingTx) FindCancelled(ctx context.Context, patientID, professionalID string, slot domain.Interval) (domain.Appointment, bool, error) {
	var appt domain.Appointment
	err := t.tx.NewSelect().
		Model(&appt).
		Where("patient_id = ?", patientID).
		Where("professional_id = ?", professionalID).
		Where("start_time = ?", slot.Start).
		Where("end_time = ?", slot.End).
		Where("status = ?", domain.AppointmentStatusCancelled).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, false, nil
		}
		return domain.Appointment{}, false, err
	}
	return appt, true, nil
}

func (t bookingTx) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := t.tx.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (t bookingTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	if _, err := t.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, err
	}
	return m, nil
}

func (t bookingTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := t.tx.NewUpdate().
		Model(&m).
		Column("patient_id", "professional_id", "start_time", "end_time", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

func (t bookingTx) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
