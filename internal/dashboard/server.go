package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qepting91/reddit-trends/internal/advisor"
	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/session"
	"github.com/qepting91/reddit-trends/internal/trends"
)

// DefaultWindow is used when a request names no window.
const DefaultWindow = domain.WindowMonth

type Server struct {
	echo     *echo.Echo
	session  *session.Session
	advisor  *advisor.Advisor
	keywords []string
	loc      *time.Location
	rng      trends.Rand
	logger   *slog.Logger
}

type Option func(*Server)

// WithAdvisor enables POST /api/advise.
func WithAdvisor(a *advisor.Advisor) Option {
	return func(s *Server) { s.advisor = a }
}

// WithKeywords sets the tracked keywords offered by the trend chart.
func WithKeywords(kws []string) Option {
	return func(s *Server) { s.keywords = kws }
}

// WithLocation pins the timezone used for bucketing.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

func WithRand(r trends.Rand) Option {
	return func(s *Server) { s.rng = r }
}

func NewServer(sess *session.Session, opts ...Option) *Server {
	s := &Server{
		echo:    echo.New(),
		session: sess,
		loc:     time.Local,
		rng:     trends.DefaultRand,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleCharts)
	s.echo.GET("/api/stats", s.handleStats)
	s.echo.GET("/api/leaderboard", s.handleLeaderboard)
	s.echo.GET("/api/keywords", s.handleKeywords)
	s.echo.GET("/api/trend", s.handleTrend)
	s.echo.GET("/api/trivia", s.handleTrivia)
	s.echo.POST("/api/advise", s.handleAdvise)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Handler exposes the router for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.echo }

// Start blocks serving on port.
func (s *Server) Start(port string) error {
	s.logger.Info("Starting Dashboard", "port", port)
	err := s.echo.Start(":" + port)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// load resolves the window query parameter and loads its posts.
func (s *Server) load(c echo.Context) (*session.Result, error) {
	window := DefaultWindow
	if raw := c.QueryParam("window"); raw != "" {
		w, err := domain.ParseWindow(raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		window = w
	}
	force := c.QueryParam("refresh") == "1"

	res, err := s.session.Load(c.Request().Context(), window, force)
	if err != nil {
		if errors.Is(err, session.ErrSuperseded) {
			return nil, echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return nil, echo.NewHTTPError(http.StatusBadGateway, session.ErrorStatus(err))
	}
	return res, nil
}

func (s *Server) summarize(res *session.Result) *trends.Summary {
	return trends.Summarize(res.Posts, res.Window, trends.DefaultTopK, s.loc)
}

type statsResponse struct {
	Status string `json:"status"`
	*trends.Summary
}

func (s *Server) handleStats(c echo.Context) error {
	res, err := s.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{Status: res.Status(), Summary: s.summarize(res)})
}

func (s *Server) handleLeaderboard(c echo.Context) error {
	k := trends.DefaultTopK
	if raw := c.QueryParam("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "k must be a positive integer")
		}
		k = n
	}
	res, err := s.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trends.BuildLeaderboard(res.Posts, k))
}

func (s *Server) handleKeywords(c echo.Context) error {
	n := 50
	if raw := c.QueryParam("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "n must be an integer")
		}
		n = v
	}
	res, err := s.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trends.KeywordFrequency(res.Posts).Top(n))
}

func (s *Server) handleTrend(c echo.Context) error {
	keyword := s.keyword(c)
	if keyword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "keyword is required")
	}
	res, err := s.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trends.KeywordTrend(res.Posts, keyword, trends.GranularityFor(res.Window), s.loc))
}

type triviaResponse struct {
	Prompt string `json:"prompt"`
	trends.Question
}

func (s *Server) handleTrivia(c echo.Context) error {
	res, err := s.load(c)
	if err != nil {
		return err
	}
	q, err := trends.RandomQuestion(trends.BuildLeaderboard(res.Posts, trends.DefaultTopK), trends.KeywordFrequency(res.Posts), s.rng)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, triviaResponse{Prompt: q.Prompt(res.Window), Question: q})
}

type adviseRequest struct {
	Idea string `json:"idea"`
}

func (s *Server) handleAdvise(c echo.Context) error {
	if s.advisor == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "idea helper is not configured")
	}
	var req adviseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, err := s.load(c)
	if err != nil {
		return err
	}

	text, err := s.advisor.Advise(c.Request().Context(), req.Idea, s.summarize(res))
	if err != nil {
		if errors.Is(err, advisor.ErrEmptyIdea) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("Idea helper failed", "err", err)
		return echo.NewHTTPError(http.StatusBadGateway, session.ErrorStatus(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"advice": text})
}

// keyword returns the requested keyword or the first tracked one.
func (s *Server) keyword(c echo.Context) string {
	if kw := c.QueryParam("keyword"); kw != "" {
		return kw
	}
	if len(s.keywords) > 0 {
		return s.keywords[0]
	}
	return ""
}
