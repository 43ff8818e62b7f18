package helper

import (
	"strconv"
	"strings"
	"time"
)

// Kalender akademik memakai tahun Buddhist Era (พ.ศ.). Tahun ajaran baru
// dimulai bulan Juni; sebelum Juni masih terhitung tahun ajaran sebelumnya.
const buddhistEraOffset = 543

func CurrentAcademicYearBE(now time.Time) int {
	year := now.Year() + buddhistEraOffset
	if now.Month() < time.June {
		year--
	}
	return year
}

// EnrollmentYearFromStudentCode membaca tahun masuk dari dua digit pertama
// kode mahasiswa (mis. "66070123" → 2566).
func EnrollmentYearFromStudentCode(code string) (int, bool) {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(code[:2])
	if err != nil {
		return 0, false
	}
	if n >= 40 {
		return 2500 + n, true
	}
	return 2600 + n, true
}

// ComputeYearLevel menurunkan tingkat (tahun ke-berapa) dari kode mahasiswa
// dan tanggal sekarang. Nilai ini selalu dihitung ulang, tidak pernah disimpan.
func ComputeYearLevel(studentCode string, now time.Time) int {
	enroll, ok := EnrollmentYearFromStudentCode(studentCode)
	if !ok {
		return 0
	}
	level := CurrentAcademicYearBE(now) - enroll + 1
	if level < 1 {
		return 1
	}
	if level > 8 {
		return 8
	}
	return level
}

// ValidGPA memeriksa rentang 0.00–4.00.
func ValidGPA(v float64) bool {
	return v >= 0 && v <= 4
}
