package api

import (
	"net/http"

	"service-request-form/internal/form"

	"github.com/gin-gonic/gin"
)

type (
	lineUpdate struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}

	// lineHandlers serves one line list of the form.
	lineHandlers struct {
		add    func(f *form.RequestForm) any
		edit   func(f *form.RequestForm, id, field, value string) error
		delete func(f *form.RequestForm, id string) error
	}
)

var (
	serviceLines = lineHandlers{
		add:    func(f *form.RequestForm) any { return f.AddServiceLine() },
		edit:   (*form.RequestForm).UpdateServiceLine,
		delete: (*form.RequestForm).RemoveServiceLine,
	}

	deliveryLines = lineHandlers{
		add:    func(f *form.RequestForm) any { return f.AddDeliveryLine() },
		edit:   (*form.RequestForm).UpdateDeliveryLine,
		delete: (*form.RequestForm).RemoveDeliveryLine,
	}
)

func (h lineHandlers) create(c *gin.Context) {
	var line any

	_, err := storeFrom(c).Update(c.Request.Context(), c.Param("id"), func(f *form.RequestForm) error {
		line = h.add(f)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h lineHandlers) update(c *gin.Context) {
	var body lineUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := storeFrom(c).Update(c.Request.Context(), c.Param("id"), func(f *form.RequestForm) error {
		return h.edit(f, c.Param("line"), body.Field, body.Value)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h lineHandlers) remove(c *gin.Context) {
	f, err := storeFrom(c).Update(c.Request.Context(), c.Param("id"), func(f *form.RequestForm) error {
		return h.delete(f, c.Param("line"))
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
