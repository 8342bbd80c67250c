package api

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck - проверка внешней зависимости (БД, redis)
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
	now    func() time.Time
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &HealthHandler{
		checks: checks,
		now:    time.Now,
	}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := healthResponse{Status: "Server is running", Timestamp: h.now()}
	code := http.StatusOK
	for _, name := range names {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(names))
		}
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, code, resp)
}
