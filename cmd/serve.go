package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vendamais/followup-cli/internal/report"
	"github.com/vendamais/followup-cli/internal/tabular"
)

var servePort int

// allowedExts gates uploads before any parsing happens. The content sniffer
// decides the real format afterwards.
var allowedExts = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the spreadsheet upload and report server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		// Evict expired reports in the background.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					n, err := env.Store.DeleteExpired(ctx)
					if err != nil {
						zap.L().Warn("report eviction failed", zap.Error(err))
						continue
					}
					if n > 0 {
						zap.L().Info("expired reports evicted", zap.Int("count", n))
					}
				}
			}
		}()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/reports", func(w http.ResponseWriter, req *http.Request) {
			handleUpload(env, w, req)
		})

		r.Get("/reports", func(w http.ResponseWriter, req *http.Request) {
			summaries, err := env.Store.List(req.Context())
			if err != nil {
				zap.L().Error("list reports failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list reports"})
				return
			}
			if summaries == nil {
				summaries = []report.Summary{}
			}
			writeJSON(w, http.StatusOK, summaries)
		})

		r.Get("/reports/{id}", func(w http.ResponseWriter, req *http.Request) {
			rep, ok := loadReport(env, w, req)
			if !ok {
				return
			}
			if wantsJSON(req) {
				writeJSON(w, http.StatusOK, rep)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := report.RenderHTML(w, rep); err != nil {
				zap.L().Error("render report failed", zap.Error(err))
			}
		})

		r.Get("/reports/{id}/owners/{owner}", func(w http.ResponseWriter, req *http.Request) {
			rep, ok := loadReport(env, w, req)
			if !ok {
				return
			}
			owner, err := url.PathUnescape(chi.URLParam(req, "owner"))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid owner"})
				return
			}
			records, found := rep.OwnerRecords(owner)
			if !found {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "owner not found in report"})
				return
			}
			if wantsJSON(req) {
				writeJSON(w, http.StatusOK, records)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := report.RenderOwnerHTML(w, owner, records); err != nil {
				zap.L().Error("render owner report failed", zap.Error(err))
			}
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func handleUpload(env *env, w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, cfg.Server.MaxUploadSize)
	if err := req.ParseMultipartForm(cfg.Server.MaxUploadSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large or malformed"})
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !allowedExts[strings.ToLower(filepath.Ext(filename))] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported file type, expected .xlsx, .xls, or .csv"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read upload"})
		return
	}

	result, err := env.Pipeline.Process(req.Context(), data, filename)
	if err != nil {
		var fmtErr *tabular.FormatError
		if errors.As(err, &fmtErr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmtErr.Error()})
			return
		}
		zap.L().Error("processing failed", zap.String("filename", filename), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "processing failed"})
		return
	}

	ttl := time.Duration(cfg.Report.TTLHours) * time.Hour
	rep := report.New(filename, result.Records, result.Skipped, ttl)
	if err := env.Store.Save(req.Context(), rep); err != nil {
		zap.L().Error("save report failed", zap.String("report_id", rep.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save report"})
		return
	}

	zap.L().Info("report created",
		zap.String("report_id", rep.ID),
		zap.String("filename", filename),
		zap.Int("deals", len(rep.Records)),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    rep.ID,
		"url":   "/reports/" + rep.ID,
		"deals": len(rep.Records),
	})
}

func loadReport(env *env, w http.ResponseWriter, req *http.Request) (*report.Report, bool) {
	id := chi.URLParam(req, "id")
	rep, err := env.Store.Get(req.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found or expired"})
			return nil, false
		}
		zap.L().Error("load report failed", zap.String("report_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load report"})
		return nil, false
	}
	return rep, true
}

func wantsJSON(req *http.Request) bool {
	if req.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
