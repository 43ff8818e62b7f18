package constants

// Status akun user. Transisi hanya lewat aksi admin (lihat approval service).
const (
	UserStatusPending   = "pending"
	UserStatusApproved  = "approved"
	UserStatusRejected  = "rejected"
	UserStatusSuspended = "suspended"
)

var UserStatuses = []string{
	UserStatusPending,
	UserStatusApproved,
	UserStatusRejected,
	UserStatusSuspended,
}

func IsValidUserStatus(s string) bool {
	switch s {
	case UserStatusPending, UserStatusApproved, UserStatusRejected, UserStatusSuspended:
		return true
	}
	return false
}

// Status verifikasi untuk academic record & achievement.
const (
	VerifyStatusPending  = "pending"
	VerifyStatusVerified = "verified"
	VerifyStatusRejected = "rejected"
)

// Status progress report.
const (
	ReportStatusDraft        = "draft"
	ReportStatusSubmitted    = "submitted"
	ReportStatusReviewed     = "reviewed"
	ReportStatusNeedRevision = "need_revision"
)

// Status thread pesan.
const (
	ThreadStatusOpen   = "open"
	ThreadStatusClosed = "closed"
)

// Jenis achievement (portofolio).
const (
	AchievementTypeActivity    = "activity"
	AchievementTypePublication = "publication"
	AchievementTypeCompetition = "competition"
	AchievementTypePatent      = "patent"
	AchievementTypeProject     = "project"
	AchievementTypeAward       = "award"
	AchievementTypeOther       = "other"
)

func IsValidAchievementType(t string) bool {
	switch t {
	case AchievementTypeActivity, AchievementTypePublication, AchievementTypeCompetition,
		AchievementTypePatent, AchievementTypeProject, AchievementTypeAward, AchievementTypeOther:
		return true
	}
	return false
}

// Jenjang studi.
const (
	DegreeLevelBachelor = "bachelor"
	DegreeLevelMaster   = "master"
	DegreeLevelDoctoral = "doctoral"
)

func IsValidDegreeLevel(d string) bool {
	switch d {
	case DegreeLevelBachelor, DegreeLevelMaster, DegreeLevelDoctoral:
		return true
	}
	return false
}
