// Package server exposes the job registry over HTTP and a websocket that
// streams candidate progress.
package server

import (
	"io"
	"net/http"
	"runtime"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"xivsim/internal/cache"
	"xivsim/internal/sim"
	"xivsim/internal/stats"
)

const maxBody = 1 << 20

// Request is a saved sim instance plus the gear set to run it with, so the
// body of a simulate call can be a settings export with stats added.
type Request struct {
	Job      string              `json:"job"`
	Stats    stats.Substats      `json:"stats"`
	Settings jsoniter.RawMessage `json:"settings"`
	Samples  int                 `json:"samples"`
	Seed     int64               `json:"seed"`
}

// cacheKey is the normalized form of a request.
type cacheKey struct {
	Job      string         `json:"job"`
	Stats    stats.Substats `json:"stats"`
	Settings sim.Settings   `json:"settings"`
	Samples  int            `json:"samples"`
	Seed     int64          `json:"seed"`
}

type Server struct {
	reg         *sim.Registry
	cache       *cache.Cache
	log         zerolog.Logger
	concurrency int
}

// New builds a server. c may be nil to disable result caching.
func New(reg *sim.Registry, c *cache.Cache, log zerolog.Logger) *Server {
	return &Server{reg: reg, cache: c, log: log, concurrency: runtime.GOMAXPROCS(0)}
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	s.Route(g)
	return g
}

func (s *Server) Route(g *gin.Engine) {
	g.Use(gin.ErrorLogger())
	g.Use(gin.Recovery())

	g.GET("/jobs", s.routeJobs)
	g.GET("/jobs/:job/settings", s.routeSettings)
	g.POST("/simulate", s.routeSimulate)
	g.GET("/ws/simulate", s.routeSimulateWs)
}

type jobInfo struct {
	Job         string `json:"job"`
	Description string `json:"description"`
}

func (s *Server) routeJobs(c *gin.Context) {
	out := []jobInfo{}
	for _, job := range s.reg.Jobs() {
		js, _ := s.reg.Get(job)
		out = append(out, jobInfo{Job: job, Description: js.Description()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) routeSettings(c *gin.Context) {
	js, err := s.reg.Get(c.Param("job"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	data, err := sim.ExportSettings(js.Job(), js.DefaultSettings())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// httpError carries the status a request problem should be answered with.
type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }

type prepared struct {
	js  sim.JobSim
	st  *stats.ComputedStats
	key cacheKey
}

func (s *Server) prepare(body []byte) (*prepared, error) {
	var req Request
	if err := jsoniter.Unmarshal(body, &req); err != nil {
		return nil, &httpError{http.StatusBadRequest, errors.Wrap(err, "decode request")}
	}
	js, settings, err := s.reg.LoadSavedSimInstance(body, s.log)
	if err != nil {
		return nil, &httpError{http.StatusNotFound, err}
	}
	if req.Stats.Job == "" {
		req.Stats.Job = js.Job()
	}
	if !strings.EqualFold(req.Stats.Job, js.Job()) {
		return nil, &httpError{http.StatusBadRequest, errors.Errorf("stats are for %s, not %s", req.Stats.Job, js.Job())}
	}
	req.Stats.Job = js.Job()
	st, err := stats.Compute(req.Stats)
	if err != nil {
		return nil, &httpError{http.StatusBadRequest, err}
	}
	return &prepared{
		js: js,
		st: st,
		key: cacheKey{
			Job:      js.Job(),
			Stats:    req.Stats,
			Settings: settings,
			Samples:  req.Samples,
			Seed:     req.Seed,
		},
	}, nil
}

func (s *Server) run(c *gin.Context, p *prepared, progress func(done, total int, cand sim.Candidate)) (*sim.Report, error) {
	return p.js.Simulate(c.Request.Context(), p.st, p.key.Settings, sim.RunOptions{
		Concurrency: s.concurrency,
		Samples:     p.key.Samples,
		Seed:        p.key.Seed,
		Logger:      s.log,
		Progress:    progress,
	})
}

func (s *Server) routeSimulate(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		s.fail(c, http.StatusBadRequest, errors.Wrap(err, "read request"))
		return
	}
	p, err := s.prepare(body)
	if err != nil {
		s.failRequest(c, err)
		return
	}

	var rep sim.Report
	if s.cache != nil && s.cache.Load(p.key, &rep) {
		c.Header("X-Cache", "hit")
		c.JSON(http.StatusOK, &rep)
		return
	}

	out, err := s.run(c, p, nil)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	if s.cache != nil {
		s.cache.Save(p.key, out)
	}
	c.Header("X-Cache", "miss")
	c.JSON(http.StatusOK, out)
}

func (s *Server) failRequest(c *gin.Context, err error) {
	var he *httpError
	if errors.As(err, &he) {
		c.JSON(he.status, gin.H{"error": he.Error()})
		return
	}
	s.fail(c, http.StatusInternalServerError, err)
}

// fail answers with status and reports server-side errors.
func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		sentry.CaptureException(err)
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
