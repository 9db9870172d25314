package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrUnsupportedType = errors.New("only jpg, png, gif and webp images are accepted")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrInvalidPath     = errors.New("invalid file path")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory of stored files
	baseURL  string // URL prefix the directory is served under
	maxBytes int64
	logger   zerolog.Logger
}

// NewLocalStorage creates the storage directory if needed. Files are
// returned as baseURL + "/" + relative path.
func NewLocalStorage(basePath, baseURL string, maxBytes int64, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "filestorage").Logger(),
	}, nil
}

// Save stores an image under subPath with a generated name
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !imageExtensions[ext] {
		return "", ErrUnsupportedType
	}
	if ls.maxBytes > 0 && fileHeader.Size > ls.maxBytes {
		return "", ErrFileTooLarge
	}

	relDir := path.Clean("/" + filepath.ToSlash(subPath))[1:]
	if strings.Contains(relDir, "..") {
		return "", ErrInvalidPath
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(relDir))
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	rel := path.Join(relDir, uniqueFilename)
	ls.logger.Info().Str("filename", fileHeader.Filename).Str("savedAs", rel).Msg("File saved")
	return ls.baseURL + "/" + rel, nil
}

// relativePath maps a URL returned by Save back to a path under basePath
func (ls *LocalStorage) relativePath(fileURL string) (string, error) {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	if rel == fileURL && ls.baseURL != "" {
		return "", ErrInvalidPath
	}
	rel = path.Clean("/" + rel)[1:]
	if rel == "" || strings.Contains(rel, "..") {
		return "", ErrInvalidPath
	}
	return filepath.FromSlash(rel), nil
}

// Delete removes a stored file. Missing files are not an error.
func (ls *LocalStorage) Delete(fileURL string) error {
	rel, err := ls.relativePath(fileURL)
	if err != nil {
		return err
	}

	physicalPath := filepath.Join(ls.basePath, rel)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.logger.Info().Str("path", rel).Msg("File deleted")
	return nil
}
