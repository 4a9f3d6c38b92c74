package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/trustbit/enterprise-rag-challenge-ui/internal/config"
	"github.com/trustbit/enterprise-rag-challenge-ui/internal/signer"
	"github.com/trustbit/enterprise-rag-challenge-ui/internal/store"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/domain"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/httpx"
)

const (
	statusSuccess     = "success"
	statusIssuesFound = "issues found"
)

func newRouter(cfg config.Config, v domain.Validator, sg *signer.Signer, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Post("/submissions/check", func(w http.ResponseWriter, r *http.Request) {
		sub, err := readSubmission(w, r, cfg)
		if err != nil {
			httpx.WriteError(w, 400, "BAD_SUBMISSION", err.Error(), nil)
			return
		}
		issues := v.Validate(&sub)
		httpx.WriteJSON(w, 200, map[string]any{
			"request_id": httpx.NewRequestID(),
			"status":     statusFor(issues),
			"valid":      len(issues) == 0,
			"issues":     nonNil(issues),
		})
	})

	r.Post("/submissions", func(w http.ResponseWriter, r *http.Request) {
		sub, err := readSubmission(w, r, cfg)
		if err != nil {
			httpx.WriteError(w, 400, "BAD_SUBMISSION", err.Error(), nil)
			return
		}
		// Issues are advisory: the submission is still signed and stored,
		// over the normalized answers Validate wrote back.
		issues := v.Validate(&sub)
		rec, info, err := sg.Sign(r.Context(), sub)
		if err != nil {
			httpx.WriteError(w, 502, "TSA_ERROR", err.Error(), nil)
			return
		}
		if err := st.Put(rec); err != nil {
			httpx.WriteError(w, 500, "STORE_ERROR", err.Error(), nil)
			return
		}
		httpx.WriteJSON(w, 200, map[string]any{
			"request_id":            httpx.NewRequestID(),
			"status":                statusFor(issues),
			"issues":                nonNil(issues),
			"submission_name":       rec.SubmissionName,
			"time":                  rec.Time,
			"signature":             rec.Signature,
			"tsp_signature":         rec.TSPSignature,
			"tsp_verification_data": info,
		})
	})

	r.Get("/submissions", func(w http.ResponseWriter, r *http.Request) {
		summaries, err := st.List()
		if err != nil {
			httpx.WriteError(w, 500, "STORE_ERROR", err.Error(), nil)
			return
		}
		httpx.WriteJSON(w, 200, map[string]any{
			"request_id":  httpx.NewRequestID(),
			"submissions": summaries,
		})
	})

	if cfg.StaticDir != "" {
		index := filepath.Join(cfg.StaticDir, "index.html")
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, index)
		})
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.Handle("/static/*", fs)
	}
	return r
}

func readSubmission(w http.ResponseWriter, r *http.Request, cfg config.Config) (domain.Submission, error) {
	var sub domain.Submission
	if err := httpx.ReadJSONLimit(w, r, &sub, cfg.MaxBodyBytes); err != nil {
		return domain.Submission{}, err
	}
	if len(sub.Answers) > cfg.MaxAnswers {
		return domain.Submission{}, fmt.Errorf("too many answers: %d exceeds the limit of %d", len(sub.Answers), cfg.MaxAnswers)
	}
	return sub, nil
}

func statusFor(issues []string) string {
	if len(issues) > 0 {
		return statusIssuesFound
	}
	return statusSuccess
}

func nonNil(issues []string) []string {
	if issues == nil {
		return []string{}
	}
	return issues
}
