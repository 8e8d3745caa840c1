package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"uniquedoc/validate"
)

// UserStore 用户集合的写入口（接口隔离，便于测试替换）
type UserStore interface {
	InsertOne(ctx context.Context, doc any) error
}

// Handler API 处理器
type Handler struct {
	users      UserStore
	metrics    *Metrics
	registry   *prometheus.Registry
	bcryptCost int
}

// New 创建处理器
func New(users UserStore, bcryptCost int) *Handler {
	reg := prometheus.NewRegistry()
	return &Handler{
		users:      users,
		metrics:    NewMetrics("uniquedoc", reg),
		registry:   reg,
		bcryptCost: bcryptCost,
	}
}

// Register 挂载路由
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/users", h.instrument("/api/v1/users", h.handleCreateUser))
	mux.HandleFunc("GET /healthz", h.instrument("/healthz", h.handleHealth))
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
}

// instrument 记录请求计数
func (h *Handler) instrument(path string, next func(http.ResponseWriter, *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := next(w, r)
		h.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
	}
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) int {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
	}
	if req.Email == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" {
		return writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email, first_name, last_name and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		log.Printf("bcrypt failed: %v", err)
		return writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.InsertOne(r.Context(), user); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			for _, p := range verr.Paths() {
				h.metrics.DuplicateConflicts.WithLabelValues(p).Inc()
			}
			// validate.Error 自带判别字段，直接作为响应体
			return writeJSON(w, http.StatusConflict, verr)
		}
		log.Printf("insert user failed: %v", err)
		return writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	h.metrics.UsersCreated.Inc()
	return writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) int {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response failed: %v", err)
	}
	return status
}
