// Package health reports process liveness and dependency readiness.
package health

import (
	"time"

	"nutriscan-backend/internal/shared/metrics"
	"nutriscan-backend/nutrition/healthmodel"
)

// Status is the health payload.
type Status struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Store         string `json:"store"`
	ModelLoaded   bool   `json:"modelLoaded"`
	ModelDigest   string `json:"modelDigest,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	storeKind string
	models    *healthmodel.Handle
	started   time.Time
}

// NewService constructs a health service for the given store kind and
// model handle.
func NewService(storeKind string, models *healthmodel.Handle) *Service {
	return &Service{
		storeKind: storeKind,
		models:    models,
		started:   time.Now(),
	}
}

// Check reports overall health. A model that cannot load degrades the
// status but keeps the endpoint answering: the handle retries on the
// next call, so degradation heals without a restart.
func (s *Service) Check() Status {
	st := Status{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Store:         s.storeKind,
	}
	model, err := s.models.Get()
	metrics.SetModelLoaded(err == nil)
	if err != nil {
		st.Status = "degraded"
		return st
	}
	st.ModelLoaded = true
	st.ModelDigest = model.Digest()
	return st
}
