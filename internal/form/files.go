package form

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const defaultMimeType = "application/octet-stream"

// FileSource is one selected file.
type FileSource interface {
	Name() string
	MimeType() string
	Open() (io.ReadCloser, error)
}

// BytesFile is an in-memory FileSource.
type BytesFile struct {
	FileName string
	Type     string
	Content  []byte
}

func (b BytesFile) Name() string     { return b.FileName }
func (b BytesFile) MimeType() string { return b.Type }
func (b BytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Content)), nil
}

// EncodeFiles reads every file concurrently and returns the successfully
// encoded ones in completion order, which is not the selection order.
// Files that fail to read are skipped and reported in the joined error.
func EncodeFiles(files []FileSource) ([]Attachment, error) {
	type result struct {
		file Attachment
		err  error
	}

	results := make(chan result, len(files))
	for _, file := range files {
		go func(file FileSource) {
			att, err := encodeFile(file)
			results <- result{file: att, err: err}
		}(file)
	}

	var (
		encoded []Attachment
		errs    []error
	)
	for range files {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		encoded = append(encoded, r.file)
	}

	return encoded, errors.Join(errs...)
}

func encodeFile(file FileSource) (Attachment, error) {
	rc, err := file.Open()
	if err != nil {
		return Attachment{}, fmt.Errorf("open %s: %w", file.Name(), err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return Attachment{}, fmt.Errorf("read %s: %w", file.Name(), err)
	}

	mimeType := file.MimeType()
	if mimeType == "" || mimeType == defaultMimeType {
		mimeType = mimetype.Detect(content).String()
	}

	return Attachment{
		ID:       uuid.NewString(),
		Name:     file.Name(),
		MimeType: mimeType,
		Data:     DataURI(mimeType, content),
	}, nil
}

// DataURI encodes content as data:<mime>;base64,<content>.
func DataURI(mimeType string, content []byte) string {
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content)
}
