package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"beasiswaku_backend/internals/constants"
	helpers "beasiswaku_backend/internals/helpers"
	"beasiswaku_backend/internals/helpers/storage"
)

// UploadController: satu-satunya pintu masuk file dari client. Folder tujuan
// whitelist; foto profil dinormalisasi ke WebP, sisanya diunggah apa adanya
// setelah cek ukuran & MIME.
type UploadController struct {
	Storage *storage.Client
}

func NewUploadController(st *storage.Client) *UploadController {
	return &UploadController{Storage: st}
}

// POST /api/u/uploads?folder=transcript
func (uc *UploadController) Upload(c *fiber.Ctx) error {
	folder := strings.TrimSpace(c.Query("folder", constants.UploadFolderGeneral))
	maxSize, allowedMimes, ok := constants.UploadPolicy(folder)
	if !ok {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Folder tujuan tidak dikenal: "+folder)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "File tidak ada di form field 'file'")
	}
	if fh.Size > maxSize {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Ukuran file melebihi batas")
	}

	// foto profil: normalisasi webp, MIME hasil selalu image/webp
	if folder == constants.UploadFolderProfile {
		result, err := uc.Storage.UploadProfileImage(folder, fh, maxSize)
		if err != nil {
			return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helpers.JsonOK(c, "File diupload", result)
	}

	contentType := fh.Header.Get("Content-Type")
	if !constants.MimeAllowed(allowedMimes, contentType) {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Tipe file tidak diizinkan: "+contentType)
	}

	result, err := uc.Storage.UploadFile(folder, fh, maxSize)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal upload file")
	}
	return helpers.JsonOK(c, "File diupload", result)
}
