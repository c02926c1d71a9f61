package storage

import (
	"bytes"
	"io"
	"mime/multipart"
)

// FromFileHeader adapts a multipart file to an Upload
func FromFileHeader(fh *multipart.FileHeader) *Upload {
	return &Upload{
		FileName:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromBytes builds an Upload backed by data
func FromBytes(name, contentType string, data []byte) *Upload {
	return &Upload{
		FileName:    name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
