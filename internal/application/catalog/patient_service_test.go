package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// MockPatientRepository is a mock implementation of catalog.PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Patient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Patient), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, patient *catalog.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestPatientService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a patient with full record", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)
		dob := time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC)

		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Patient")).Return(nil)

		resp, err := service.Create(ctx, &CreatePatientRequest{
			FullName:    "Nguyen Van A",
			DateOfBirth: &dob,
			Gender:      catalog.GenderMale,
			PhoneNumber: "0901234567",
			CitizenID:   "012345678901",
			BloodType:   catalog.BloodTypeOPos,
			Allergies:   "penicillin",
		})

		require.NoError(t, err)
		assert.Equal(t, "Nguyen Van A", resp.FullName)
		assert.Equal(t, catalog.BloodTypeOPos, resp.BloodType)
		assert.Equal(t, "012345678901", resp.CitizenID)
		repo.AssertExpectations(t)
	})

	t.Run("defaults gender and blood type when omitted", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)

		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Patient")).Return(nil)

		resp, err := service.Create(ctx, &CreatePatientRequest{FullName: "Tran Thi B"})

		require.NoError(t, err)
		assert.Equal(t, catalog.GenderOther, resp.Gender)
		assert.Equal(t, catalog.BloodTypeUnknown, resp.BloodType)
		assert.Equal(t, -1, resp.Age)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)

		_, err := service.Create(ctx, &CreatePatientRequest{FullName: ""})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPatientService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates profile and medical fields", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)
		patient, err := catalog.NewPatient("Nguyen Van A", catalog.GenderMale)
		require.NoError(t, err)

		repo.On("FindByID", ctx, patient.ID).Return(patient, nil)
		repo.On("Save", ctx, patient).Return(nil)

		resp, err := service.Update(ctx, patient.ID, &UpdatePatientRequest{
			FullName:  "Nguyen Van A",
			Gender:    catalog.GenderMale,
			Address:   "12 Hang Bong, Hanoi",
			BloodType: catalog.BloodTypeANeg,
		})

		require.NoError(t, err)
		assert.Equal(t, "12 Hang Bong, Hanoi", resp.Address)
		assert.Equal(t, catalog.BloodTypeANeg, resp.BloodType)
	})

	t.Run("missing patient returns not found", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, &UpdatePatientRequest{FullName: "X"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPatientService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("List returns paginated patients", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)
		patient, err := catalog.NewPatient("Nguyen Van A", catalog.GenderMale)
		require.NoError(t, err)
		filter := shared.DefaultFilter()

		repo.On("FindAll", ctx, filter).Return([]catalog.Patient{*patient}, nil)
		repo.On("Count", ctx, filter).Return(int64(1), nil)

		result, err := service.List(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, patient.FullName, result.Items[0].FullName)
	})

	t.Run("Delete checks existence first", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := NewPatientService(repo)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, service.Delete(ctx, id), shared.ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
