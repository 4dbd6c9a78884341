package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"clinicbook/infras/otel"
	"clinicbook/infras/postgres"
	"clinicbook/internal/domains/schedule/model"
	gDto "clinicbook/shared/dto"
	gRepo "clinicbook/shared/repository"
	"context"
	"time"
)

type Schedule interface {
	Insert(ctx context.Context, model model.Schedule) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Schedule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Schedule, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ListForDay(ctx context.Context, clinicID string, dayOfWeek int, date time.Time, practitionerID string) ([]model.Schedule, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Schedule]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Schedule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Schedule](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListForDay returns the active schedules of a clinic that recur on the given
// day-of-week and whose validity window covers date, ordered by practitioner id
// then start time so callers see a deterministic sequence. Overlapping validity
// windows for the same practitioner are returned as-is; the slot generator
// unions them.
func (repo *repositoryImpl) ListForDay(ctx context.Context, clinicID string, dayOfWeek int, date time.Time, practitionerID string) ([]model.Schedule, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldClinicID,
				Operator: gDto.FilterOperatorEq,
				Value:    clinicID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDayOfWeek,
				Operator: gDto.FilterOperatorEq,
				Value:    dayOfWeek,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						Field:    model.FieldValidFrom,
						Operator: gDto.FilterIsNull,
						Table:    model.TableName,
					},
					gDto.Filter{
						ArgName:  "valid_from_bound",
						Field:    model.FieldValidFrom,
						Operator: gDto.FilterOperatorLessEq,
						Value:    date,
						Table:    model.TableName,
					},
				},
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						Field:    model.FieldValidUntil,
						Operator: gDto.FilterIsNull,
						Table:    model.TableName,
					},
					gDto.Filter{
						ArgName:  "valid_until_bound",
						Field:    model.FieldValidUntil,
						Operator: gDto.FilterOperatorGreaterEq,
						Value:    date,
						Table:    model.TableName,
					},
				},
			},
		},
	}

	if practitionerID != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldPractitionerID,
			Operator: gDto.FilterOperatorEq,
			Value:    practitionerID,
			Table:    model.TableName,
		})
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldPractitionerID + ", " + model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter)
}
