// Package api exposes a game session over HTTP and pushes state changes to
// websocket clients.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/export"
	"github.com/zappabad/stocksurge/internal/game"
	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/internal/market"
	"github.com/zappabad/stocksurge/internal/store"
)

var ErrClosed = errors.New("server closed")

type Server struct {
	cfg    Config
	game   *game.Game
	store  store.SnapshotStore
	logger *zap.Logger
	hub    *hub
	router *gin.Engine

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewServer wires the routes over g. snapshots may be nil, which disables
// the snapshot routes. The server starts forwarding market events to
// websocket clients immediately.
func NewServer(cfg Config, g *game.Game, snapshots store.SnapshotStore, logger *zap.Logger) *Server {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		game:   g,
		store:  snapshots,
		logger: logger.Named("api"),
		closed: make(chan struct{}),
	}
	s.hub = newHub(cfg.ClientBuffer, s.logger)
	s.router = s.routes()

	s.wg.Add(1)
	go s.forwardLoop()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/state", s.getState)
	r.POST("/start", s.start)
	r.POST("/pause", s.pause)
	r.POST("/reset", s.reset)
	r.POST("/trades", s.submitTrade)
	r.GET("/trades", s.getTrades)
	r.POST("/import", s.importPortfolio)
	r.GET("/export/:kind", s.exportCSV)
	r.GET("/ws", s.serveWS)

	if s.store != nil {
		r.PUT("/snapshots/:name", s.saveSnapshot)
		r.POST("/snapshots/:name/load", s.loadSnapshot)
	}
	return r
}

// Handler returns the HTTP handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close stops event forwarding and disconnects websocket clients.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
	s.hub.closeAll()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) state() game.State {
	return s.game.State(s.cfg.NewsLimit)
}

// forwardLoop pushes the state to websocket clients after every market
// event. It ends when the server or the market closes.
func (s *Server) forwardLoop() {
	defer s.wg.Done()

	events := s.game.Market.Events()
	for {
		select {
		case <-s.closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.broadcast(ev.Type.String())
		}
	}
}

func (s *Server) broadcast(kind string) {
	if s.hub.size() == 0 {
		return
	}
	s.hub.broadcast(StateMessage{Type: kind, State: s.state()})
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) start(c *gin.Context) {
	s.game.Start()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) pause(c *gin.Context) {
	s.game.Pause()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) reset(c *gin.Context) {
	s.game.Reset()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) getTrades(c *gin.Context) {
	c.JSON(http.StatusOK, s.game.Ledger.Trades())
}

func (s *Server) submitTrade(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	dir, err := ledger.ParseDirection(req.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tr, err := s.game.Trade(req.Company, req.Quantity, dir)
	if err != nil {
		c.JSON(tradeStatus(err), ErrorResponse{Error: err.Error()})
		return
	}

	s.broadcast("trade")
	c.JSON(http.StatusCreated, tr)
}

func tradeStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientHoldings),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, market.ErrUnknownCompany):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// importPortfolio accepts the portfolio as JSON or, with a text/csv
// content type, in the CSV export format.
func (s *Server) importPortfolio(c *gin.Context) {
	var (
		portfolio map[string]float64
		cash      float64
		err       error
	)
	if strings.HasPrefix(c.ContentType(), "text/csv") {
		portfolio, cash, err = export.ReadPortfolioCSV(c.Request.Body)
	} else {
		portfolio, cash, err = export.ReadPortfolioJSON(c.Request.Body)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	s.game.Import(portfolio, cash)
	s.broadcast("import")
	c.JSON(http.StatusOK, s.game.Ledger.Snapshot())
}

func (s *Server) exportCSV(c *gin.Context) {
	kind, err := export.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, kind, s.game.State(0)); err != nil {
		s.logger.Error("export failed", zap.String("kind", string(kind)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.FileName()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) saveSnapshot(c *gin.Context) {
	name := c.Param("name")
	snap := store.FromLedger(s.game.Ledger.Snapshot(), time.Now())
	if err := s.store.Save(c.Request.Context(), name, snap); err != nil {
		s.logger.Error("save snapshot failed", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) loadSnapshot(c *gin.Context) {
	name := c.Param("name")
	snap, err := s.store.Load(c.Request.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.game.Import(snap.Holdings(), snap.Cash)
	s.broadcast("import")
	c.JSON(http.StatusOK, s.game.Ledger.Snapshot())
}
