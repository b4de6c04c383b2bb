package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/history"
	"github.com/shelfwise/pricescan/internal/pricing"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP extraction server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env := newAppEnv(cfg, true)

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			failures, state := env.Breaker.Counters()
			writeJSON(w, http.StatusOK, map[string]any{
				"status":           "ok",
				"breaker_state":    state.String(),
				"breaker_failures": failures,
				"metrics":          env.Metrics.Collect(),
			})
		})

		r.Post("/v1/extract", func(w http.ResponseWriter, req *http.Request) {
			handleExtract(env, w, req)
		})

		r.Get("/v1/history", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"scans": env.History.List(),
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// extractRequest is the inbound JSON body for /v1/extract.
type extractRequest struct {
	ImageBase64 string `json:"image_base64"`
	MIMEType    string `json:"mime_type"`
}

func handleExtract(env *appEnv, w http.ResponseWriter, req *http.Request) {
	// The upload boundary enforces the stricter pre-upload limit; the
	// orchestrator enforces the API-side limit independently. Base64
	// inflates by 4/3, plus some slack for the JSON envelope.
	req.Body = http.MaxBytesReader(w, req.Body, cfg.Limits.MaxUploadBytes*4/3+4096)

	var body extractRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAppError(w, apperr.New(apperr.CodeImageTooLarge).
				WithMessage("upload exceeds %d bytes", cfg.Limits.MaxUploadBytes))
			return
		}
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	image, err := base64.StdEncoding.DecodeString(body.ImageBase64)
	if err != nil {
		http.Error(w, `{"error":"image_base64 is not valid base64"}`, http.StatusBadRequest)
		return
	}
	if int64(len(image)) > cfg.Limits.MaxUploadBytes {
		writeAppError(w, apperr.New(apperr.CodeImageTooLarge).
			WithMessage("upload is %d bytes, limit is %d", len(image), cfg.Limits.MaxUploadBytes))
		return
	}

	res, err := env.Orchestrator.Extract(req.Context(), image, body.MIMEType)
	if err != nil {
		writeAppError(w, err)
		return
	}

	entry := env.History.Add(history.Entry{
		ID:        res.RequestID,
		Product:   res.Data.Product.Name,
		Brand:     res.Data.Product.Brand,
		UnitPrice: res.UnitPrice,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"result":     res,
		"formatted":  pricing.FormatUnitPrice(res.UnitPrice, cfg.Locale),
		"scanned_at": entry.ScannedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError renders a taxonomy error with an HTTP status reflecting
// its code.
func writeAppError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err, apperr.CodeAPIError)

	status := http.StatusInternalServerError
	switch {
	case appErr.Code == apperr.CodeImageTooLarge:
		status = http.StatusRequestEntityTooLarge
	case appErr.Code == apperr.CodeAPIRateLimit:
		status = http.StatusTooManyRequests
	case appErr.Code == apperr.CodeNetworkError:
		status = http.StatusServiceUnavailable
	case appErr.Category() == apperr.UserError:
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]any{
		"code":        appErr.Code,
		"message":     appErr.UserMessage,
		"suggestions": appErr.Suggestions,
		"recoverable": appErr.Recoverable(),
		"category":    appErr.Category().String(),
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (defaults to config)")
	rootCmd.AddCommand(serveCmd)
}
