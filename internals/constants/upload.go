package constants

// Folder tujuan upload yang diizinkan beserta batas ukuran & MIME type.
const (
	UploadFolderProfile     = "profile"
	UploadFolderAchievement = "achievement"
	UploadFolderReport      = "report"
	UploadFolderTranscript  = "transcript"
	UploadFolderGeneral     = "general"
)

const (
	MaxImageUploadSize    = 5 * 1024 * 1024 // gambar boleh lebih besar
	MaxDocumentUploadSize = 2 * 1024 * 1024
)

var imageMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}

var documentMimeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
}

// UploadPolicy mengembalikan (maxSize, allowedMimes, ok) untuk satu folder tujuan.
func UploadPolicy(folder string) (int64, []string, bool) {
	switch folder {
	case UploadFolderProfile:
		return MaxImageUploadSize, imageMimeTypes, true
	case UploadFolderAchievement, UploadFolderReport, UploadFolderTranscript, UploadFolderGeneral:
		return MaxDocumentUploadSize, documentMimeTypes, true
	}
	return 0, nil, false
}

func MimeAllowed(allowed []string, contentType string) bool {
	for _, m := range allowed {
		if m == contentType {
			return true
		}
	}
	return false
}
