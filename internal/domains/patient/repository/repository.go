package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"clinicbook/infras/otel"
	"clinicbook/infras/postgres"
	"clinicbook/internal/domains/patient/model"
	"clinicbook/shared/constant"
	gDto "clinicbook/shared/dto"
	gModel "clinicbook/shared/model"
	gRepo "clinicbook/shared/repository"
	"clinicbook/shared/timezone"
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Patient interface {
	Insert(ctx context.Context, model model.Patient) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Patient, error)
	GetOrCreate(ctx context.Context, clinicID, fullName, phone, email string) (model.Patient, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Patient]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Patient {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Patient](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetOrCreate resolves a patient by phone within the clinic, creating the
// record when no match exists.
func (repo *repositoryImpl) GetOrCreate(ctx context.Context, clinicID, fullName, phone, email string) (model.Patient, error) {
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
				Field:    model.FieldPhone,
				Operator: gDto.FilterOperatorEq,
				Value:    phone,
				Table:    model.TableName,
			},
		},
	}

	patient, err := repo.Get(ctx, filter)
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to resolve patient: %w", err)
	}

	if patient.ID != constant.Empty {
		return patient, nil
	}

	patient = model.Patient{
		ID:       uuid.NewString(),
		ClinicID: clinicID,
		FullName: fullName,
		Phone:    phone,
		Email:    email,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "booking",
			ModifiedBy: "booking",
		},
	}

	if err := repo.Insert(ctx, patient); err != nil {
		return model.Patient{}, fmt.Errorf("failed to create patient: %w", err)
	}

	return patient, nil
}
