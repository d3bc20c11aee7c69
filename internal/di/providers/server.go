package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/cellarapp/cellar-server/internal/api"
	"github.com/cellarapp/cellar-server/internal/config"
	"github.com/cellarapp/cellar-server/internal/logger"
	"github.com/cellarapp/cellar-server/internal/media/labels"
	"github.com/cellarapp/cellar-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	labelStorage := do.MustInvoke[*labels.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:    do.MustInvoke[*service.AuthService](i),
		Shelf:   do.MustInvoke[*service.ShelfService](i),
		Bottle:  do.MustInvoke[*service.BottleService](i),
		History: do.MustInvoke[*service.HistoryService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, labelStorage, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
