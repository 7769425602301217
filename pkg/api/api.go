// Package api exposes the text pipeline and the record store over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"aes256-go/pkg/store"
	"aes256-go/pkg/transform"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// decryptFailedMsg is the single message for every rejected ciphertext.
const decryptFailedMsg = "decryption failed"

type Server struct {
	Api            *echo.Echo
	proc           *transform.Processor
	store          store.Store
	storePlaintext bool
	logger         zerolog.Logger
}

type Option func(*Server)

// WithStore enables the save flag and the /v1/records routes.
func WithStore(s store.Store, keepPlaintext bool) Option {
	return func(srv *Server) {
		srv.store = s
		srv.storePlaintext = keepPlaintext
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

type encryptRequest struct {
	Plaintext string `json:"plaintext"`
	Label     string `json:"label"`
	Save      bool   `json:"save"`
}

type encryptResponse struct {
	Ciphertext string `json:"ciphertext"`
	ID         string `json:"id,omitempty"`
}

type decryptRequest struct {
	Ciphertext string `json:"ciphertext"`
}

type decryptResponse struct {
	Plaintext string `json:"plaintext"`
}

type recordView struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Plaintext  string    `json:"plaintext,omitempty"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
}

func viewOf(r store.Record) recordView {
	return recordView{ID: r.ID, Label: r.Label, Plaintext: r.Plaintext, Ciphertext: r.Ciphertext, CreatedAt: r.CreatedAt}
}

func NewServer(proc *transform.Processor, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	srv := &Server{Api: e, proc: proc, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(srv)
	}

	e.Use(middleware.Recover())
	e.Use(srv.requestLogger)

	e.GET("/healthz", srv.Healthz)
	e.POST("/v1/encrypt", srv.Encrypt)
	e.POST("/v1/decrypt", srv.Decrypt)
	e.GET("/v1/records", srv.ListRecords)
	e.GET("/v1/records/:id", srv.GetRecord)
	return srv
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Info().
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", c.Response().Status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

func (s *Server) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) Encrypt(c echo.Context) error {
	var req encryptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ct, err := s.proc.SealString(req.Plaintext)
	if err != nil {
		s.logger.Error().Err(err).Msg("encrypt failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "encryption failed")
	}
	resp := encryptResponse{Ciphertext: ct}
	if req.Save {
		if s.store == nil {
			return echo.NewHTTPError(http.StatusConflict, "no record store configured")
		}
		rec := store.NewRecord(req.Label, "", ct)
		if s.storePlaintext {
			rec.Plaintext = req.Plaintext
		}
		if err := s.store.Put(c.Request().Context(), rec); err != nil {
			s.logger.Error().Err(err).Msg("saving record failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "saving record failed")
		}
		resp.ID = rec.ID
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) Decrypt(c echo.Context) error {
	var req decryptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	pt, err := s.proc.OpenString(req.Ciphertext)
	if err != nil {
		s.logger.Debug().Err(err).Msg("decrypt rejected")
		return echo.NewHTTPError(http.StatusBadRequest, decryptFailedMsg)
	}
	return c.JSON(http.StatusOK, decryptResponse{Plaintext: pt})
}

func (s *Server) ListRecords(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no record store configured")
	}
	records, err := s.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]recordView, 0, len(records))
	for _, r := range records {
		views = append(views, viewOf(r))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) GetRecord(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no record store configured")
	}
	r, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewOf(r))
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("api listening")
		errc <- s.Api.Start(addr)
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Api.Shutdown(shutdownCtx)
	}
}
