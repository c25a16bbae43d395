package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"hashkat/engine"
	"hashkat/followaction"
	"hashkat/graph"
	"hashkat/server/fastview"

	"github.com/gorilla/mux"
)

// Server serves the dashboard's single page and its websocket feed.
// Grounded on server.Server, generalized to gorilla/mux routing (the other
// side of the pack's web stack the grid-world server never exercised) and
// to fastview's generic client[T] instead of hand-rolled ping/pong
// plumbing, since dashboard updates are a single concrete type (Snapshot's
// derived []fastview.EleUpdate) rather than the grid server's ad hoc
// inline implementation.
type Server struct {
	addr    string
	view    *rootView
	initial Snapshot
}

// NewServer builds the dashboard's views, wired to poll the simulation at
// the given interval, and returns a Server ready to Serve. The initial page
// render uses a snapshot taken now, same as server.Server.lastUpdate seeds
// the grid-world's first render before any update has arrived over the feed.
func NewServer(
	ctx context.Context,
	addr string,
	e *engine.Engine,
	g *graph.Graph,
	f *followaction.FollowAction,
	interval time.Duration,
) *Server {
	return &Server{
		addr:    addr,
		view:    newRootView(ctx, e, g, f, interval),
		initial: Collect(e, g, f),
	}
}

// Serve starts the http server, blocking until it stops or errors.
func (s *Server) Serve() error {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWebsocket)

	if err := http.ListenAndServe(s.addr, r); err != nil {
		return fmt.Errorf("dashboard: serve: %w", err)
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := renderTemplate(w, s.view, s.initial); err != nil {
		_, _ = w.Write([]byte(err.Error()))
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := fastview.NewClient[[]fastview.EleUpdate](s.view.Updates(), w, r)
	if err != nil {
		log.Println("dashboard: upgrade failed:", err)
		return
	}
	if err := cli.Sync(); err != nil {
		log.Println("dashboard: client disconnected:", err)
	}
}

func renderTemplate(w io.Writer, vc fastview.ViewComponent, data interface{}) error {
	t := template.New("index")
	tname, err := vc.Parse(t)
	if err != nil {
		return err
	}
	if _, err := t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return err
	}
	return t.Execute(w, data)
}
