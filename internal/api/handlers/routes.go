package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/dvloznov/finance-docproc/internal/api/middleware"
	"github.com/dvloznov/finance-docproc/internal/apperrors"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Log zerolog.Logger
	// Limiter, when set, rate limits the process endpoint per client IP.
	Limiter *limiter.Limiter
}

// NewRouter wires every endpoint and the middleware chain.
func NewRouter(processor DocumentProcessor, opts RouterOptions) http.Handler {
	documentsHandler := NewDocumentsHandler(processor)

	var process http.Handler = http.HandlerFunc(documentsHandler.ProcessDocument)
	if opts.Limiter != nil {
		process = middleware.RateLimit(opts.Limiter)(process)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/process-document-convert", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			process.ServeHTTP(w, r)
		} else {
			methodNotAllowed(w, http.MethodPost)
		}
	})

	// Health check endpoints
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			Health(w, r)
		} else {
			methodNotAllowed(w, http.MethodGet)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.WriteAppError(w, apperrors.ErrNotFound)
			return
		}
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			Health(w, r)
		} else {
			methodNotAllowed(w, http.MethodGet)
		}
	})

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(opts.Log),
		middleware.Recovery,
		middleware.CORS,
	)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	middleware.WriteAppError(w, apperrors.ErrMethodNotAllowed)
}
