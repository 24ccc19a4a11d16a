package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"vessfm/core/ingest"
	"vessfm/logger"
)

const maxUploadSize = 100 << 20 // 100MB

var nonAlphaNumeric = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)
var multipleSpaces = regexp.MustCompile(`\s+`)

func generateUniqueSuffix() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// sanitizeFilename turns an uploaded filename into something safe to write
// to disk, keeping the extension and adding a random suffix so concurrent
// uploads of the same file never collide.
func sanitizeFilename(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)

	base = multipleSpaces.ReplaceAllString(strings.TrimSpace(base), "_")
	base = nonAlphaNumeric.ReplaceAllString(base, "")
	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" {
		base = "upload"
	}

	return base + "_" + generateUniqueSuffix() + ext
}

// uploadFileStatus reports the outcome of one file in a batch upload.
type uploadFileStatus struct {
	File    string `json:"file"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// UploadTracksHandler accepts a multipart batch of audio files plus an
// optional shared cover image. Files are written to the library and one
// ingest job is queued per file; the response goes out before any
// ingestion work happens. Ingestion failures are visible only through the
// event feed and the logs.
func (h *APIHandler) UploadTracksHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Error("failed to parse upload form", logger.ErrorField(err))
		http.Error(w, "Failed to parse upload form", http.StatusBadRequest)
		return
	}

	coverRef := ""
	if coverFile, coverHeader, err := r.FormFile("coverImage"); err == nil {
		defer coverFile.Close()
		ref, err := h.saveUploadedFile(coverFile, coverHeader, h.cfg.MusicImageDir, "/library/images/music_image")
		if err != nil {
			logger.Warn("failed to save cover image, continuing without it", logger.ErrorField(err))
		} else {
			coverRef = ref
		}
	}

	musicFiles := r.MultipartForm.File["musicFiles"]
	if len(musicFiles) == 0 {
		http.Error(w, "No audio files in request", http.StatusBadRequest)
		return
	}

	statuses := make([]uploadFileStatus, 0, len(musicFiles))
	accepted := 0
	for _, header := range musicFiles {
		status := h.acceptUpload(header, coverRef, userID)
		if status.Status == "accepted" {
			accepted++
		}
		statuses = append(statuses, status)
	}

	code := http.StatusAccepted
	if accepted == 0 {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, struct {
		Message string             `json:"message"`
		Files   []uploadFileStatus `json:"files"`
	}{Message: "upload accepted, processing initiated", Files: statuses})
}

// acceptUpload stores one audio file and queues its ingest job.
func (h *APIHandler) acceptUpload(header *multipart.FileHeader, coverRef string, userID int64) uploadFileStatus {
	file, err := header.Open()
	if err != nil {
		return uploadFileStatus{File: header.Filename, Status: "failed", Message: "could not read uploaded file"}
	}
	defer file.Close()

	if !ingest.IsAudioFile(header.Filename) {
		return uploadFileStatus{File: header.Filename, Status: "rejected", Message: "unsupported file type"}
	}

	target := filepath.Join(h.cfg.MusicDir, sanitizeFilename(header.Filename))
	out, err := os.Create(target)
	if err != nil {
		logger.Error("failed to create upload target",
			logger.String("path", target),
			logger.ErrorField(err))
		return uploadFileStatus{File: header.Filename, Status: "failed", Message: "could not store file"}
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		logger.Error("failed to write upload",
			logger.String("path", target),
			logger.ErrorField(err))
		os.Remove(target)
		return uploadFileStatus{File: header.Filename, Status: "failed", Message: "could not store file"}
	}

	err = h.runner.Enqueue(ingest.Job{FilePath: target, CoverPath: coverRef, OwnerID: userID})
	if err != nil {
		if errors.Is(err, ingest.ErrQueueFull) {
			logger.Warn("ingest queue full, rejecting upload", logger.String("file", header.Filename))
			return uploadFileStatus{File: header.Filename, Status: "rejected", Message: "server busy, try again later"}
		}
		return uploadFileStatus{File: header.Filename, Status: "failed", Message: "could not queue file"}
	}

	return uploadFileStatus{File: header.Filename, Status: "accepted"}
}

// saveUploadedFile writes a multipart file into dir and returns its public
// reference under baseURL.
func (h *APIHandler) saveUploadedFile(file multipart.File, header *multipart.FileHeader, dir, baseURL string) (string, error) {
	name := sanitizeFilename(header.Filename)
	target := filepath.Join(dir, name)

	out, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(target)
		return "", err
	}
	return path.Join(baseURL, name), nil
}
