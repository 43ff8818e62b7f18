package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentAcademicYearBE(t *testing.T) {
	// Juli 2024 → tahun ajaran 2567
	assert.Equal(t, 2567, CurrentAcademicYearBE(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)))
	// Maret 2024 masih tahun ajaran 2566
	assert.Equal(t, 2566, CurrentAcademicYearBE(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestEnrollmentYearFromStudentCode(t *testing.T) {
	y, ok := EnrollmentYearFromStudentCode("66070123")
	assert.True(t, ok)
	assert.Equal(t, 2566, y)

	_, ok = EnrollmentYearFromStudentCode("x")
	assert.False(t, ok)

	_, ok = EnrollmentYearFromStudentCode("ab070123")
	assert.False(t, ok)
}

func TestComputeYearLevel(t *testing.T) {
	july2024 := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	// Masuk 2566, sekarang tahun ajaran 2567 → tingkat 2
	assert.Equal(t, 2, ComputeYearLevel("66070123", july2024))
	// Mahasiswa baru
	assert.Equal(t, 1, ComputeYearLevel("67070123", july2024))
	// Kode tidak valid → 0
	assert.Equal(t, 0, ComputeYearLevel("", july2024))
}

func TestValidGPA(t *testing.T) {
	assert.True(t, ValidGPA(0))
	assert.True(t, ValidGPA(4))
	assert.True(t, ValidGPA(3.25))
	assert.False(t, ValidGPA(4.5))
	assert.False(t, ValidGPA(-0.1))
}
