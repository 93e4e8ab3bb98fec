package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/services"
)

type ProductionHandler struct {
	productionService services.ProductionService
}

func NewProductionHandler(productionService services.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

type splitRequest struct {
	Splits []struct {
		FlavourID uuid.UUID `json:"flavour_id"`
		PackCount int       `json:"pack_count"`
		Notes     string    `json:"notes"`
	} `json:"splits"`
}

func (ph *ProductionHandler) SaveSplits(c *gin.Context) {
	batchID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	splits := make([]services.SplitInput, 0, len(req.Splits))
	for _, s := range req.Splits {
		splits = append(splits, services.SplitInput{
			FlavourID: s.FlavourID,
			PackCount: s.PackCount,
			Notes:     s.Notes,
		})
	}
	saved, err := ph.productionService.SaveSplits(c.Request.Context(), batchID, currentUserID(c), splits)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"splits": saved})
}

func (ph *ProductionHandler) ListSplits(c *gin.Context) {
	batchID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	splits, err := ph.productionService.ListSplits(c.Request.Context(), batchID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"splits": splits})
}

// Totals reports per-flavour production for a product inside [from, to).
// Dates are RFC 3339 or YYYY-MM-DD; the default window is the last 30 days.
func (ph *ProductionHandler) Totals(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		to = t
	}

	summary, err := ph.productionService.Totals(c.Request.Context(), productID, from, to)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
