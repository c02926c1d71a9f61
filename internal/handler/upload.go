package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

// attachmentsField is the multipart field carrying uploaded files
const attachmentsField = "attachments"

// formUploads collects the files sent under attachmentsField.
// Requests that are not multipart carry no files.
func formUploads(c *gin.Context) ([]*storage.Upload, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, true
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid multipart form")
		return nil, false
	}

	files := form.File[attachmentsField]
	uploads := make([]*storage.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, storage.FromFileHeader(fh))
	}
	return uploads, true
}

// bindInput binds form or JSON fields depending on the request content type
func bindInput(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return false
	}
	return true
}
