package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"clinicbook/infras/otel"
	"clinicbook/infras/postgres"
	"clinicbook/internal/domains/practitioner/model"
	gDto "clinicbook/shared/dto"
	gRepo "clinicbook/shared/repository"
	"context"
)

type Practitioner interface {
	Insert(ctx context.Context, model model.Practitioner) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Practitioner, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Practitioner, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	GetActive(ctx context.Context, clinicID, practitionerID string) (model.Practitioner, error)
	ListActiveByIDs(ctx context.Context, clinicID string, ids []string) ([]model.Practitioner, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Practitioner]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Practitioner {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Practitioner](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetActive looks a practitioner up within its clinic; inactive records are
// treated the same as missing ones.
func (repo *repositoryImpl) GetActive(ctx context.Context, clinicID, practitionerID string) (model.Practitioner, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    practitionerID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldClinicID,
				Operator: gDto.FilterOperatorEq,
				Value:    clinicID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	return repo.Get(ctx, filter)
}

// ListActiveByIDs returns the active practitioners of a clinic among the given
// ids, ordered by id.
func (repo *repositoryImpl) ListActiveByIDs(ctx context.Context, clinicID string, ids []string) ([]model.Practitioner, error) {
	if len(ids) == 0 {
		return []model.Practitioner{}, nil
	}

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
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldID,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter)
}
