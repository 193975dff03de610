package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"agent-directory/internal/apperr"
	"agent-directory/internal/ingest"
	"agent-directory/internal/model"
	"agent-directory/internal/submission"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

// AgentStore 抽象经纪人目录的增删改查。
type AgentStore interface {
	ListAgents(ctx context.Context) ([]model.Agent, error)
	GetAgent(ctx context.Context, slug string) (*model.Agent, error)
	CreateAgent(ctx context.Context, agent *model.Agent) error
	UpdateAgent(ctx context.Context, slug string, payload *model.Agent) (*model.Agent, error)
	DeleteAgent(ctx context.Context, slug string) error
}

// Importer 抽象批量与 CSV 导入。
type Importer interface {
	Bulk(ctx context.Context, records []map[string]any) ingest.Result
	CSV(ctx context.Context, text string) (ingest.Result, error)
}

// Submissions 抽象提交记录的创建与查询。
type Submissions interface {
	Create(ctx context.Context, req submission.Request) (model.AgentSubmission, error)
	List(ctx context.Context, status string) ([]model.AgentSubmission, error)
	Get(ctx context.Context, id string) (*model.AgentSubmission, error)
}

// Reviewer 抽象审核操作。
type Reviewer interface {
	Approve(ctx context.Context, id string) (*model.AgentSubmission, error)
	Reject(ctx context.Context, id string, notes string) (*model.AgentSubmission, error)
}

// Deps 汇总 HTTP 层依赖。
type Deps struct {
	Agents      AgentStore
	Importer    Importer
	Submissions Submissions
	Reviewer    Reviewer
	Auth        AuthConfig
	CORSOrigins []string
	Logger      *logrus.Entry
}

// RejectRequest 为驳回请求体。
type RejectRequest struct {
	Notes string `json:"notes"`
}

// NewHandler 构造 HTTP 路由。
func NewHandler(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	h := &handlers{deps: deps}
	admin := RequireAdmin(deps.Auth)
	adminFunc := func(fn http.HandlerFunc) http.Handler { return admin(fn) }

	r := mux.NewRouter()
	r.Use(requestLogger(logger.WithField("component", "http")))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/agents", h.listAgents).Methods(http.MethodGet)
	r.Handle("/api/agents", adminFunc(h.createAgent)).Methods(http.MethodPost)
	r.Handle("/api/agents/bulk", adminFunc(h.bulkImport)).Methods(http.MethodPost)
	r.Handle("/api/agents/import", adminFunc(h.csvImport)).Methods(http.MethodPost)
	r.HandleFunc("/api/agents/{slug}", h.getAgent).Methods(http.MethodGet)
	r.Handle("/api/agents/{slug}", adminFunc(h.updateAgent)).Methods(http.MethodPut)
	r.Handle("/api/agents/{slug}", adminFunc(h.deleteAgent)).Methods(http.MethodDelete)

	r.HandleFunc("/api/submissions", h.createSubmission).Methods(http.MethodPost)
	r.Handle("/api/submissions", adminFunc(h.listSubmissions)).Methods(http.MethodGet)
	r.Handle("/api/submissions/{id}", adminFunc(h.getSubmission)).Methods(http.MethodGet)
	r.Handle("/api/submissions/{id}/approve", adminFunc(h.approve)).Methods(http.MethodPost)
	r.Handle("/api/submissions/{id}/reject", adminFunc(h.reject)).Methods(http.MethodPost)

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

type handlers struct {
	deps Deps
}

func (h *handlers) listAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.deps.Agents.ListAgents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (h *handlers) getAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.deps.Agents.GetAgent(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (h *handlers) createAgent(w http.ResponseWriter, r *http.Request) {
	agent, ok := decodeAgent(w, r, ingest.NormalizeBulkRecord)
	if !ok {
		return
	}
	if err := h.deps.Agents.CreateAgent(r.Context(), &agent); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

func (h *handlers) updateAgent(w http.ResponseWriter, r *http.Request) {
	agent, ok := decodeAgent(w, r, ingest.NormalizeAgentUpdate)
	if !ok {
		return
	}
	updated, err := h.deps.Agents.UpdateAgent(r.Context(), mux.Vars(r)["slug"], &agent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) deleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Agents.DeleteAgent(r.Context(), mux.Vars(r)["slug"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) bulkImport(w http.ResponseWriter, r *http.Request) {
	var records []map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&records); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected a JSON array of records"})
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Importer.Bulk(r.Context(), records))
}

func (h *handlers) csvImport(w http.ResponseWriter, r *http.Request) {
	text, err := readCSVBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.deps.Importer.CSV(r.Context(), text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) createSubmission(w http.ResponseWriter, r *http.Request) {
	var req submission.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	sub, err := h.deps.Submissions.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *handlers) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.deps.Submissions.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *handlers) getSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.deps.Submissions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *handlers) approve(w http.ResponseWriter, r *http.Request) {
	sub, err := h.deps.Reviewer.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *handlers) reject(w http.ResponseWriter, r *http.Request) {
	var req RejectRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
	}
	sub, err := h.deps.Reviewer.Reject(r.Context(), mux.Vars(r)["id"], req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func decodeAgent(w http.ResponseWriter, r *http.Request, normalize func(map[string]any) (model.AgentInput, error)) (model.Agent, bool) {
	var rec map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return model.Agent{}, false
	}
	in, err := normalize(rec)
	if err != nil {
		writeError(w, err)
		return model.Agent{}, false
	}
	return in.ToAgent(), true
}

func readCSVBody(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", errors.New("multipart field \"file\" is required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("read upload failed")
		}
		return string(data), nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.New("read body failed")
	}
	return string(data), nil
}

// writeError 把 apperr 分类映射为 HTTP 状态码。
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, apperr.ErrStateConflict):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperr.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *logrus.Entry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Debug("request served")
		})
	}
}
