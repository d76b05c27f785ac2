package form

import (
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type brokenFile struct{ name string }

func (b brokenFile) Name() string     { return b.name }
func (b brokenFile) MimeType() string { return "image/png" }
func (b brokenFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func decodeDataURI(t *testing.T, uri string) (string, []byte) {
	t.Helper()

	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		t.Fatalf("not a data uri: %.30s", uri)
	}
	mimeType, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok {
		t.Fatalf("not base64: %.30s", uri)
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return mimeType, content
}

func TestEncodeFilesTwoFiles(t *testing.T) {
	files := []FileSource{
		BytesFile{FileName: "frente.jpg", Type: "image/jpeg", Content: []byte("first file bytes")},
		BytesFile{FileName: "fundo.png", Type: "image/png", Content: pngHeader},
	}

	encoded, err := EncodeFiles(files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(encoded))
	}
	if encoded[0].ID == "" || encoded[0].ID == encoded[1].ID {
		t.Errorf("expected distinct identifiers, got %q and %q", encoded[0].ID, encoded[1].ID)
	}

	// completion order is not selection order, so match by name
	byName := map[string]Attachment{}
	for _, a := range encoded {
		byName[a.Name] = a
	}
	for _, src := range files {
		b := src.(BytesFile)
		a, ok := byName[b.FileName]
		if !ok {
			t.Fatalf("%s missing", b.FileName)
		}
		mimeType, content := decodeDataURI(t, a.Data)
		if mimeType != b.Type || a.MimeType != b.Type {
			t.Errorf("%s: expected mime %s, got %s / %s", b.FileName, b.Type, mimeType, a.MimeType)
		}
		if string(content) != string(b.Content) {
			t.Errorf("%s: content mismatch", b.FileName)
		}
	}
}

func TestEncodeFilesSameFileTwice(t *testing.T) {
	same := BytesFile{FileName: "a.png", Type: "image/png", Content: pngHeader}

	encoded, err := EncodeFiles([]FileSource{same, same})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != 2 || encoded[0].ID == encoded[1].ID {
		t.Errorf("reselecting a file must not collide: %+v", encoded)
	}
}

func TestEncodeFilesSkipsFailures(t *testing.T) {
	files := []FileSource{
		brokenFile{name: "locked.png"},
		BytesFile{FileName: "ok.png", Type: "image/png", Content: pngHeader},
	}

	encoded, err := EncodeFiles(files)
	if err == nil || !strings.Contains(err.Error(), "locked.png") {
		t.Errorf("expected error naming locked.png, got %v", err)
	}
	if len(encoded) != 1 || encoded[0].Name != "ok.png" {
		t.Errorf("expected only ok.png, got %+v", encoded)
	}
}

func TestEncodeFilesDetectsMissingMime(t *testing.T) {
	encoded, err := EncodeFiles([]FileSource{BytesFile{FileName: "sem-tipo", Content: pngHeader}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded[0].MimeType != "image/png" {
		t.Errorf("expected image/png, got %s", encoded[0].MimeType)
	}
	if !strings.HasPrefix(encoded[0].Data, "data:image/png;base64,") {
		t.Errorf("unexpected data uri prefix: %.40s", encoded[0].Data)
	}
}

func TestEncodeFilesEmptySelection(t *testing.T) {
	encoded, err := EncodeFiles(nil)
	if err != nil || len(encoded) != 0 {
		t.Errorf("expected nothing, got %v %v", encoded, err)
	}
}

func TestDataURIDefaultsMime(t *testing.T) {
	if got := DataURI("", []byte("hi")); got != "data:application/octet-stream;base64,aGk=" {
		t.Errorf("unexpected %s", got)
	}
}
