package server

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loykin/twwatch/internal/metrics"
	"github.com/loykin/twwatch/internal/watcher"
)

// StatusSource reports the current watcher status.
type StatusSource interface {
	Status() watcher.Status
}

// Router provides embeddable, read-only HTTP handlers for a running watcher.
// Endpoints:
//
//	GET {basePath}/status    query: input=... (optional, single process)
//	GET {basePath}/healthz   200 while running, 503 otherwise
//	GET {basePath}/metrics   Prometheus exposition
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	src      StatusSource
	basePath string
}

// NewRouter constructs a new Router with configurable basePath.
// Example basePath: "/tw" results in /tw/status, /tw/healthz, /tw/metrics.
func NewRouter(src StatusSource, basePath string) *Router {
	return &Router{src: src, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/status", r.handleStatus)
	group.GET("/healthz", r.handleHealth)
	group.GET("/metrics", gin.WrapH(metrics.Handler()))
	return g
}

// NewServer binds addr and serves the router on it in the background. Bind
// errors are returned; the returned server's Addr is the bound address.
// Shut it down with the returned server's Shutdown or Close.
func NewServer(addr, basePath string, src StatusSource) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	r := NewRouter(src, basePath)
	server := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.Serve(ln) }()
	return server, nil
}

type errorResp struct {
	Error string `json:"error"`
}

type healthResp struct {
	State watcher.State `json:"state"`
}

func (r *Router) handleStatus(c *gin.Context) {
	st := r.src.Status()
	input := c.Query("input")
	if input == "" {
		writeJSON(c, http.StatusOK, st)
		return
	}
	for _, p := range st.Processes {
		if p.Input == input {
			writeJSON(c, http.StatusOK, p)
			return
		}
	}
	writeJSON(c, http.StatusNotFound, errorResp{Error: "no watch process for input " + input})
}

func (r *Router) handleHealth(c *gin.Context) {
	st := r.src.Status()
	code := http.StatusOK
	if st.State != watcher.StateRunning {
		code = http.StatusServiceUnavailable
	}
	writeJSON(c, code, healthResp{State: st.State})
}
