package api

import (
	"errors"
	"net/http"
	"time"

	"service-request-form/internal/cache"
	"service-request-form/internal/form"
	"service-request-form/internal/logger"
	"service-request-form/internal/submission"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func createForm(c *gin.Context) {
	f := form.New(uuid.NewString(), time.Now())

	if err := storeFrom(c).Save(c.Request.Context(), f); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Form session created", f.ID)
	c.JSON(http.StatusCreated, f)
}

func getForm(c *gin.Context) {
	f, err := storeFrom(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// patchHeader applies {wireName: value} pairs. Nothing is stored when one of
// them is rejected.
func patchHeader(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := storeFrom(c).Update(c.Request.Context(), c.Param("id"), func(f *form.RequestForm) error {
		for field, value := range fields {
			if err := f.SetHeader(field, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func deleteForm(c *gin.Context) {
	id := c.Param("id")

	if err := storeFrom(c).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	pipelineFrom(c).Forget(id)
	hubFrom(c).CloseForm(id)

	logger.Info("Form session deleted", id)
	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, err error) {
	var fieldErr *form.FieldError

	switch {
	case errors.Is(err, cache.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
	case errors.Is(err, form.ErrUnknownLine):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, submission.ErrBusy), errors.Is(err, cache.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Warning("Request failed", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
