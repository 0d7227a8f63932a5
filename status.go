package climatehkb

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/brutella/hap/log"
	"github.com/go-chi/chi/v5"
)

type status struct {
	Entity    string         `json:"entity"`
	State     AccessoryState `json:"state"`
	LastSync  *time.Time     `json:"last_sync,omitempty"`
	LastError string         `json:"last_error,omitempty"`
}

// Handler serves the status endpoint: what HomeKit is being shown and how
// the last poll went. POST /sync pulls from the hub right away.
func (b *Bridge) Handler(ctx context.Context) http.Handler {
	router := chi.NewRouter()
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Climate HomeKit Bridge"))
	})

	router.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		st := status{
			Entity: b.Config.Climate,
			State:  b.Climate.State(),
		}
		last, err := b.Poller.LastSync()
		if !last.IsZero() {
			st.LastSync = &last
		}
		if err != nil {
			st.LastError = err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			log.Info.Println(err.Error())
		}
	})

	router.Post("/sync", func(w http.ResponseWriter, r *http.Request) {
		log.Info.Printf("manual sync requested from %s", r.RemoteAddr)
		b.Poller.Trigger(ctx)
		w.WriteHeader(http.StatusAccepted)
	})

	return router
}

// HTTPServer runs the status endpoint on addr until ctx is done.
func (b *Bridge) HTTPServer(ctx context.Context, addr string) {
	srv := &http.Server{
		Handler:      b.Handler(ctx),
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Info.Printf("starting http service at %s", addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Info.Println(err.Error())
		}
	}()
	<-ctx.Done()
	log.Info.Printf("stopping http service")
	srv.Shutdown(context.Background())
}
