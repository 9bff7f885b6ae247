package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandlers renders the browser UI.
type PageHandlers struct{}

func NewPageHandlers() *PageHandlers {
	return &PageHandlers{}
}

// Page returns a handler rendering the named template with its title.
func (h *PageHandlers) Page(template, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, template, gin.H{"Title": title, "Active": template})
	}
}
