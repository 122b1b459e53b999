package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pvzzle/chainlens/internal/catalog"
	"github.com/pvzzle/chainlens/internal/rpc"
	"github.com/pvzzle/chainlens/internal/skills"

	"github.com/sirupsen/logrus"
)

// Skills is the data surface served over HTTP.
type Skills interface {
	Portfolio(ctx context.Context, address string) (*skills.PortfolioResult, error)
	Risk(ctx context.Context, address string) (*skills.RiskResult, error)
	Gas(ctx context.Context) (*skills.GasQuote, error)
	Token(ctx context.Context, symbol string) (*skills.TokenResult, error)
	Tx(ctx context.Context, hash string) (*skills.TxResult, error)
}

type Config struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Server struct {
	skills  Skills
	catalog catalog.Catalog
	cfg     Config
	log     logrus.FieldLogger
}

func NewServer(sk Skills, cat catalog.Catalog, cfg Config, log logrus.FieldLogger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return &Server{
		skills:  sk,
		catalog: cat,
		cfg:     cfg,
		log:     log.WithField("component", "http"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /catalog", s.handleCatalog)
	mux.HandleFunc("GET /portfolio/{address}", s.handlePortfolio)
	mux.HandleFunc("GET /risk/{address}", s.handleRisk)
	mux.HandleFunc("GET /gas", s.handleGas)
	mux.HandleFunc("GET /token/{symbol}", s.handleToken)
	mux.HandleFunc("GET /tx/{hash}", s.handleTx)

	var h http.Handler = mux
	h = s.withTimeout(h)
	h = s.withAccessLog(h)
	h = s.withCORS(h)
	h = withRequestID(h)
	h = s.withRecover(h)
	return h
}

// -------------------- handlers --------------------

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	res, err := s.skills.Portfolio(r.Context(), r.PathValue("address"))
	s.respond(w, r, res, err)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	res, err := s.skills.Risk(r.Context(), r.PathValue("address"))
	s.respond(w, r, res, err)
}

func (s *Server) handleGas(w http.ResponseWriter, r *http.Request) {
	res, err := s.skills.Gas(r.Context())
	s.respond(w, r, res, err)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	res, err := s.skills.Token(r.Context(), r.PathValue("symbol"))
	s.respond(w, r, res, err)
}

func (s *Server) handleTx(w http.ResponseWriter, r *http.Request) {
	res, err := s.skills.Tx(r.Context(), r.PathValue("hash"))
	s.respond(w, r, res, err)
}

// -------------------- helpers --------------------

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// writeError maps the error taxonomy onto status codes. Transport details stay in the log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "internal error"

	var (
		ve *skills.ValidationError
		ue *rpc.UpstreamError
	)
	switch {
	case errors.As(err, &ve):
		status, msg = http.StatusBadRequest, ve.Message
	case errors.Is(err, skills.ErrTxNotFound):
		status, msg = http.StatusNotFound, "Transaction not found"
	case errors.As(err, &ue):
		msg = ue.Error()
	case rpc.IsNetwork(err), errors.Is(err, context.DeadlineExceeded):
		msg = "upstream request failed"
	}

	if status >= http.StatusInternalServerError {
		s.log.WithFields(logrus.Fields{
			"request_id": requestIDFrom(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorBody{Error: msg})
}
