// Package storage membungkus object storage (Supabase Storage) sebagai blob
// store buram: upload mengembalikan URL publik + metadata file.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ProjectURL string
	ServiceKey string
	Bucket     string
	HTTP       *http.Client
}

func NewClient(projectURL, serviceKey, bucket string) *Client {
	if bucket == "" {
		bucket = "files"
	}
	return &Client{
		ProjectURL: strings.TrimRight(projectURL, "/"),
		ServiceKey: serviceKey,
		Bucket:     bucket,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadResult adalah kontrak yang dipersist entitas hilir
// (transcript_url, attachment, dsb).
type UploadResult struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return safeNameRe.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s/%s-%s-%s", folder, timestamp, uuid.New().String(), sanitizeFilename(originalFilename))
}

// ReadAllLimit membaca maksimal max byte; lebih dari itu dianggap error.
func ReadAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := io.LimitReader(r, max+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, errors.New("file too large")
	}
	return b, nil
}

// UploadBytes mengunggah isi buffer dan mengembalikan URL publik.
func (s *Client) UploadBytes(path, contentType string, data []byte) (string, error) {
	if s.ProjectURL == "" || s.ServiceKey == "" {
		return "", fmt.Errorf("SUPABASE_URL atau SUPABASE_SERVICE_KEY belum diset")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.ProjectURL, s.Bucket, path)

	req, err := http.NewRequest(http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("gagal membuat request upload: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("gagal mengirim request upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload gagal status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.ProjectURL, s.Bucket, url.PathEscape(path))
	return publicURL, nil
}

// UploadFile mengunggah satu multipart file apa adanya.
func (s *Client) UploadFile(folder string, fh *multipart.FileHeader, maxSize int64) (*UploadResult, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("gagal membuka file: %w", err)
	}
	defer src.Close()

	data, err := ReadAllLimit(src, maxSize)
	if err != nil {
		return nil, err
	}

	contentType := fh.Header.Get("Content-Type")
	path := GenerateUniqueFilename(folder, fh.Filename)
	publicURL, err := s.UploadBytes(path, contentType, data)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		URL:  publicURL,
		Name: fh.Filename,
		Size: int64(len(data)),
		Type: contentType,
	}, nil
}

// Delete menghapus satu object berdasarkan path relatif bucket.
func (s *Client) Delete(path string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.ProjectURL, s.Bucket, path)

	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete gagal status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
