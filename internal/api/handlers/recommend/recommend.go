package recommend

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"meal-deals/internal/core/recommendation"
	"meal-deals/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recommender recommendation pipeline
type Recommender interface {
	Recommend(ctx context.Context, branch int, prefs recommendation.Preferences) (*recommendation.Result, error)
}

// Request recommendation request body
type Request struct {
	Preferences recommendation.RawPreferences `json:"preferences"`
}

// Response recommendation response body
type Response struct {
	BranchID       int                     `json:"branch_id"`
	NumberOfPeople int                     `json:"number_of_people"`
	MealType       string                  `json:"meal_type"`
	BudgetLevel    string                  `json:"budget_level"`
	Strategy       recommendation.Strategy `json:"strategy"`
	Deals          []recommendation.Bundle `json:"deals"`
}

// Handler recommendation endpoint
type Handler struct {
	svc   Recommender
	debug bool
}

// NewHandler creates a Handler
func NewHandler(svc Recommender, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

// HandleRecommend POST /api/recommend/:branch_id
func (h *Handler) HandleRecommend(c *gin.Context) {
	branch, err := strconv.Atoi(c.Param("branch_id"))
	if err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(common.NewValidationError("branch_id must be an integer")), h.debug)
		return
	}

	var req Request
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteError(c, common.NewError(common.ErrCodeEntityTooLarge, "request body too large", http.StatusRequestEntityTooLarge, err), h.debug)
			return
		}
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	prefs, err := recommendation.Normalize(req.Preferences)
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}

	result, err := h.svc.Recommend(c.Request.Context(), branch, prefs)
	if err != nil {
		common.LogError("recommendation failed",
			zap.Int("branch", branch),
			zap.String("request_id", common.RequestIDFrom(c.Request.Context())),
			zap.Error(err),
		)
		common.WriteError(c, err, h.debug)
		return
	}

	deals := result.Bundles
	if deals == nil {
		deals = []recommendation.Bundle{}
	}
	c.JSON(http.StatusOK, Response{
		BranchID:       branch,
		NumberOfPeople: prefs.PartySize,
		MealType:       prefs.MealTime,
		BudgetLevel:    prefs.BudgetTier,
		Strategy:       result.Strategy,
		Deals:          deals,
	})
}
