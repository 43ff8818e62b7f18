package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	profileImageSize    = 512
	profileImageQuality = 85
)

// NormalizeProfileImage melakukan re-encode foto profil ke WebP 512x512
// sebelum disimpan, apapun format aslinya.
func NormalizeProfileImage(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("gagal membuka file gambar: %w", err)
	}
	defer src.Close()

	data, err := ReadAllLimit(src, maxSize)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("file bukan gambar yang valid: %w", err)
	}

	// Crop tengah + resize ke dimensi tetap
	img = imaging.Fill(img, profileImageSize, profileImageSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: profileImageQuality}); err != nil {
		return nil, fmt.Errorf("gagal encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// UploadProfileImage = normalize + upload, mengembalikan kontrak yang sama
// dengan UploadFile.
func (s *Client) UploadProfileImage(folder string, fh *multipart.FileHeader, maxSize int64) (*UploadResult, error) {
	data, err := NormalizeProfileImage(fh, maxSize)
	if err != nil {
		return nil, err
	}

	path := GenerateUniqueFilename(folder, fh.Filename+".webp")
	publicURL, err := s.UploadBytes(path, "image/webp", data)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		URL:  publicURL,
		Name: fh.Filename,
		Size: int64(len(data)),
		Type: "image/webp",
	}, nil
}
