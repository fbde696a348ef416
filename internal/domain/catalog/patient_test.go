package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatient(t *testing.T) {
	t.Run("creates patient successfully", func(t *testing.T) {
		patient, err := NewPatient("Nguyen Van A", GenderMale)

		require.NoError(t, err)
		assert.Equal(t, "Nguyen Van A", patient.FullName)
		assert.Equal(t, BloodTypeUnknown, patient.BloodType)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		patient, err := NewPatient("", GenderMale)

		require.Error(t, err)
		assert.Nil(t, patient)
	})

	t.Run("fails with unknown gender", func(t *testing.T) {
		patient, err := NewPatient("Nguyen Van A", Gender("UNSET"))

		require.Error(t, err)
		assert.Nil(t, patient)
	})
}

func TestPatient_UpdateMedicalInfo(t *testing.T) {
	patient, err := NewPatient("Nguyen Van A", GenderMale)
	require.NoError(t, err)

	t.Run("updates medical fields", func(t *testing.T) {
		err := patient.UpdateMedicalInfo(BloodTypeOPos, "penicillin", "asthma")

		require.NoError(t, err)
		assert.Equal(t, BloodTypeOPos, patient.BloodType)
		assert.Equal(t, "penicillin", patient.Allergies)
	})

	t.Run("rejects unknown blood type", func(t *testing.T) {
		err := patient.UpdateMedicalInfo(BloodType("C+"), "", "")

		require.Error(t, err)
	})
}

func TestPatient_Age(t *testing.T) {
	patient, err := NewPatient("Nguyen Van A", GenderFemale)
	require.NoError(t, err)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("unknown date of birth", func(t *testing.T) {
		assert.Equal(t, -1, patient.Age(now))
	})

	t.Run("birthday already passed this year", func(t *testing.T) {
		dob := time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC)
		patient.DateOfBirth = &dob
		assert.Equal(t, 36, patient.Age(now))
	})

	t.Run("birthday later this year", func(t *testing.T) {
		dob := time.Date(1990, 11, 2, 0, 0, 0, 0, time.UTC)
		patient.DateOfBirth = &dob
		assert.Equal(t, 35, patient.Age(now))
	})
}
