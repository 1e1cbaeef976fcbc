package webapp

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsQuery struct {
	Query string `json:"query"`
}

type wsResponse struct {
	Query              string     `json:"query"`
	Results            []wsResult `json:"results,omitempty"`
	Error              string     `json:"error,omitempty"`
	SearchTimeMillisec float64    `json:"search_time_milliseconds,omitempty"`
}

type wsResult struct {
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// handleSearchWS upgrades the connection and evaluates one query per
// inbound frame until the client closes the connection.
func (s *Server) handleSearchWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req wsQuery
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		start := time.Now()
		results, err := s.evaluator.Search(req.Query)
		elapsed := time.Since(start)

		resp := wsResponse{Query: req.Query, SearchTimeMillisec: float64(elapsed.Microseconds()) / 1000.0}
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Results = make([]wsResult, len(results))
			for i, r := range results {
				resp.Results[i] = wsResult{URL: r.URL, Score: r.Score}
			}
		}

		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
