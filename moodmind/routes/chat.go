package routes

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"moodmind/moodmind/controllers"
	"moodmind/moodmind/types"
)

func ChatRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()

	// POST /chat/ : run one conversation turn
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := ctrl.Chat(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	// POST /chat/feedback : record feedback about a previous reply
	r.Post("/feedback", func(w http.ResponseWriter, r *http.Request) {
		var req types.FeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.Feedback(r.Context(), req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// GET /chat/diagnostics : analyzer and quota state
	r.Get("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.Diagnostics(r.Context()))
	})

	// POST /chat/backend : switch the preferred analyzer backend
	r.Post("/backend", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		kind, err := ctrl.SetBackend(r.Context(), req.Kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"kind": string(kind)})
	})

	// POST /chat/reload : drop the cached backend and re-probe
	r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
		kind := ctrl.ReloadBackend(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"kind": string(kind)})
	})

	// GET /chat/ws : one websocket connection per conversation, one JSON
	// request per frame, one JSON response per frame
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if typ != websocket.MessageText {
				conn.Close(websocket.StatusUnsupportedData, "unsupported data")
				return
			}
			var req types.ChatRequest
			if err := json.Unmarshal(data, &req); err != nil {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
				continue
			}
			resp, err := ctrl.Chat(ctx, req)
			if err != nil {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"`+err.Error()+`"}`))
				continue
			}
			out, err := json.Marshal(resp)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
				return
			}
		}
	})

	return r
}
