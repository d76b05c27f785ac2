package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"service-request-form/internal/form"
	"service-request-form/internal/logger"

	"github.com/gin-gonic/gin"
)

const photosField = "fotos"

// uploadedFile adapts a multipart part to form.FileSource.
type uploadedFile struct {
	header *multipart.FileHeader
}

func (u uploadedFile) Name() string     { return u.header.Filename }
func (u uploadedFile) MimeType() string { return u.header.Header.Get("Content-Type") }
func (u uploadedFile) Open() (io.ReadCloser, error) {
	return u.header.Open()
}

func isImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

func uploadPhotos(c *gin.Context) {
	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	headers := mf.File[photosField]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in field " + photosField})
		return
	}

	sources := make([]form.FileSource, 0, len(headers))
	for _, h := range headers {
		src := uploadedFile{header: h}
		if declared := src.MimeType(); declared != "" && declared != "application/octet-stream" && !isImage(declared) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": h.Filename + " is not an image"})
			return
		}
		sources = append(sources, src)
	}

	encoded, err := form.EncodeFiles(sources)
	if err != nil {
		logger.Warning("Some photos were skipped:", err)
	}
	for _, att := range encoded {
		// undeclared types are checked after sniffing
		if !isImage(att.MimeType) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": att.Name + " is not an image"})
			return
		}
	}
	if len(encoded) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no readable files"})
		return
	}

	_, err = storeFrom(c).Update(c.Request.Context(), c.Param("id"), func(f *form.RequestForm) error {
		f.AddAttachments(encoded...)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Debug("Photos attached to form", c.Param("id"), len(encoded))
	c.JSON(http.StatusCreated, encoded)
}

func removePhoto(c *gin.Context) {
	f, err := storeFrom(c).Update(c.Request.Context(), c.Param("id"), func(f *form.RequestForm) error {
		return f.RemoveAttachment(c.Param("file"))
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
