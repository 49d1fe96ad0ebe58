package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dmkor/button-game-backend/internal/game"
	"github.com/dmkor/button-game-backend/internal/store"
)

type sessionView struct {
	Status      game.Status `json:"status"`
	AdminIDs    []int64     `json:"admin_ids"`
	LivePlayers int         `json:"live_players"`
}

// SessionStatus reports the singleton session and the live player count.
// Read-only; lifecycle changes only happen through admin commands.
func SessionStatus(st store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := st.GetOrCreateSession(r.Context(), nil)
		if err != nil {
			log.Error("load session", zap.Error(err))
			http.Error(w, "failed to load session", http.StatusInternalServerError)
			return
		}
		count, err := st.CountLivePlayers(r.Context())
		if err != nil {
			log.Error("count players", zap.Error(err))
			http.Error(w, "failed to count players", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sessionView{
			Status:      session.Status,
			AdminIDs:    session.AdminIDs,
			LivePlayers: count,
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
