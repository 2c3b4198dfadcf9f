package core

import "fmt"

// FileUpload is a file received from a multipart form, held in memory.
type FileUpload struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Content     []byte `json:"-"`
}

// Validate checks the upload against the configured size cap and
// MIME type allow-list.
func (fu *FileUpload) Validate(conf *Config) error {
	if fu.Size > conf.Upload.MaxSize {
		return NewValidationError(nil, FieldError{
			Field: "file",
			Error: fmt.Sprintf("file size must not exceed %dMB", conf.Upload.MaxSize>>20),
		})
	}
	for _, typ := range conf.Upload.AllowedTypes {
		if fu.ContentType == typ {
			return nil
		}
	}
	return NewValidationError(nil, FieldError{
		Field: "file",
		Error: fmt.Sprintf("file type %q is not allowed", fu.ContentType),
	})
}
