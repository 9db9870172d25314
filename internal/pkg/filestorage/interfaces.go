package filestorage

import "mime/multipart"

// ImageStore saves uploaded images and serves them under public URLs
type ImageStore interface {
	// Save stores the upload under subPath and returns its public URL
	Save(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// Delete removes a file previously returned by Save
	Delete(fileURL string) error
}

var _ ImageStore = (*LocalStorage)(nil)
