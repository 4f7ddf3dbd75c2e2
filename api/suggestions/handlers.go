package suggestions

import (
	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/internal/services/autocomplete"
)

// Get handles GET /api/v1/projects/:id/suggestions
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		mode := autocomplete.SuggestionMode(c.DefaultQuery("mode", string(autocomplete.ModeFull)))
		if !mode.Valid() {
			types.SendBadRequest(c, "Unknown suggestion mode")
			return
		}

		words, err := deps.Suggestions.Suggestions(c.Request.Context(), projectID, mode)
		if err != nil {
			types.SendInternalError(c, "Failed to load suggestions")
			return
		}

		types.SendSuccess(c, types.SuggestionsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Mode:         string(mode),
			Suggestions:  words,
			Count:        len(words),
		})
	}
}
