package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"clinicbook/infras/otel"
	"clinicbook/infras/postgres"
	"clinicbook/internal/domains/booking/model"
	"clinicbook/shared/constant"
	gDto "clinicbook/shared/dto"
	"clinicbook/shared/failure"
	"clinicbook/shared/logger"
	gRepo "clinicbook/shared/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	ListForDate(ctx context.Context, clinicID string, date time.Time, practitionerID string) ([]model.Booking, error)
	CreateAtomically(ctx context.Context, booking model.Booking) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LiveFilters are the conjuncts excluding cancelled and soft-deleted bookings;
// both states free the slot for conflict purposes.
func LiveFilters() []any {
	return []any{
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorNotEq,
			Value:    constant.BookingStatusCancelled,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldDeletedAt,
			Operator: gDto.FilterIsNull,
			Table:    model.TableName,
		},
	}
}

// SlotFilter identifies one slot key: clinic, date, exact HH:MM start and
// practitioner, restricted to live bookings.
func SlotFilter(clinicID string, date time.Time, startTime, practitionerID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldClinicID,
			Operator: gDto.FilterOperatorEq,
			Value:    clinicID,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldBookingDate,
			Operator: gDto.FilterOperatorEq,
			Value:    date,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStartTime,
			Operator: gDto.FilterOperatorEq,
			Value:    startTime,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldPractitionerID,
			Operator: gDto.FilterOperatorEq,
			Value:    practitionerID,
			Table:    model.TableName,
		},
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  append(filters, LiveFilters()...),
	}
}

// ListForDate returns the live bookings of a clinic for one calendar date,
// optionally narrowed to a practitioner.
func (repo *repositoryImpl) ListForDate(ctx context.Context, clinicID string, date time.Time, practitionerID string) ([]model.Booking, error) {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldClinicID,
			Operator: gDto.FilterOperatorEq,
			Value:    clinicID,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldBookingDate,
			Operator: gDto.FilterOperatorEq,
			Value:    date,
			Table:    model.TableName,
		},
	}

	if practitionerID != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldPractitionerID,
			Operator: gDto.FilterOperatorEq,
			Value:    practitionerID,
			Table:    model.TableName,
		})
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  append(filters, LiveFilters()...),
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter)
}

// CreateAtomically commits one booking with double-booking protection. The
// existence check and insert share a transaction, but the real guarantee is
// the partial unique index on (clinic_id, practitioner_id, booking_date,
// start_time) over live rows: a concurrent commit for the same key loses at
// the storage layer and is reported as the same Conflict, so the outcome is
// correct across service instances, not just within this process.
func (repo *repositoryImpl) CreateAtomically(ctx context.Context, booking model.Booking) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateAtomically")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error().Err(err).Msg("failed to roll back booking transaction")
		}
	}()

	taken, err := repo.ExistTx(ctx, tx, SlotFilter(booking.ClinicID, booking.BookingDate, booking.StartTime, booking.PractitionerID))
	if err != nil {
		return fmt.Errorf("failed to check slot availability: %w", err)
	}

	if taken {
		return failure.Conflict("slot already taken") // nolint:wrapcheck
	}

	if err := repo.InsertTx(ctx, tx, booking); err != nil {
		if isUniqueViolation(err) {
			return failure.Conflict("slot already taken") // nolint:wrapcheck
		}

		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return failure.Conflict("slot already taken") // nolint:wrapcheck
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}
