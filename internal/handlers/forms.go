package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/doktrace-backend/internal/services"
)

type FormHandler struct {
	formRenderService services.FormRenderService
}

func NewFormHandler(formRenderService services.FormRenderService) *FormHandler {
	return &FormHandler{formRenderService: formRenderService}
}

// RenderStageForm streams the printable blank log sheet for one stage of a
// batch as a PNG.
func (fh *FormHandler) RenderStageForm(c *gin.Context) {
	batchID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stageID, ok := pathUUID(c, "stageId")
	if !ok {
		return
	}
	png, err := fh.formRenderService.RenderStageForm(c.Request.Context(), batchID, stageID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
