package api

import (
	"net/http"
	"strconv"

	"blog-serwer/internal/database"
)

// @Summary      Get new events
// @Description  Retrieves up to 100 journal events (post_created, user_registered) newer than the given event ID.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        since  query     int  false  "The ID of the last event received. Omit or use 0 to get all events."
// @Success      200    {array}   database.Event
// @Failure      400    {string}  string "Bad Request"
// @Failure      401    {string}  string "Unauthorized"
// @Failure      500    {string}  string "Internal Server Error"
// @Router       /events [get]
func (s *Server) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sinceID := int64(0)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		var err error
		sinceID, err = strconv.ParseInt(sinceStr, 10, 64)
		if err != nil || sinceID < 0 {
			http.Error(w, "Invalid 'since' parameter, must be a non-negative number", http.StatusBadRequest)
			return
		}
	}

	events, err := s.store.GetEventsSince(r.Context(), claims.UserID, sinceID)
	if err != nil {
		logger.Errorf("failed to read events of user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []database.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}
