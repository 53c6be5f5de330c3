package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Ailysom/ras-chat/internal/runtime"
	"github.com/Ailysom/ras-chat/internal/server/http/controllers"
	chatsvc "github.com/Ailysom/ras-chat/internal/services/chat"
	logpkg "github.com/Ailysom/ras-chat/pkg/log"
)

// Server hosts the JSON API over net/http.
type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	chat   *chatsvc.Service
	logger logpkg.Logger
}

// New constructs a Server with its own chat service instance.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	return NewWithService(rt, chatsvc.NewWithLogger(rt, logger), logger)
}

// NewWithService constructs a Server around a shared chat service.
func NewWithService(rt *runtime.Runtime, chat *chatsvc.Service, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("http"))
	}
	mux := http.NewServeMux()
	s := &Server{rt: rt, chat: chat, logger: logger}
	registry := controllers.NewControllerRegistry(rt, chat)
	registry.RegisterAllRoutes(mux)
	s.srv = &http.Server{Handler: cors(requestID(logRequests(logger, mux)))}
	return s
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID stamps responses with a request identifier, honoring one the
// caller already supplied.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func logRequests(logger logpkg.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request handled",
			logpkg.Str("method", r.Method),
			logpkg.Str("path", r.URL.Path),
			logpkg.Dur("dur_ms", time.Since(start)),
		)
	})
}
