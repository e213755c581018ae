package handlers

import (
	"net/http"
	"sync"
)

// Startup steps reported by the readiness endpoint
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepContent    = "Seeding content"
	StepBadWords   = "Seeding bad words filter"
	StepServices   = "Initializing services"
)

// Startup tracks initialization progress and whether the server accepts games
type Startup struct {
	mu       sync.RWMutex
	ready    bool
	draining bool
	current  string
	steps    []StartupStep
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type startupResponse struct {
	Ready    bool          `json:"ready"`
	Current  string        `json:"current"`
	Progress int           `json:"progress"`
	Steps    []StartupStep `json:"steps"`
}

// NewStartup creates a tracker for the named steps
func NewStartup(steps ...string) *Startup {
	s := &Startup{current: "Initializing..."}
	for _, name := range steps {
		s.steps = append(s.steps, StartupStep{Name: name})
	}
	return s
}

// SetCurrentStep updates the current initialization step
func (s *Startup) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed
func (s *Startup) CompleteStep(stepName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.steps {
		if s.steps[i].Name == stepName {
			s.steps[i].Completed = true
			break
		}
	}
}

// MarkReady marks the server as fully initialized
func (s *Startup) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = "Server ready"
}

// MarkDraining stops new games from starting while the server shuts down
func (s *Startup) MarkDraining() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draining = true
	s.current = "Shutting down"
}

// IsReady returns whether the server is initialized and not shutting down
func (s *Startup) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready && !s.draining
}

// progress is the percentage of completed steps. Callers hold the lock.
func (s *Startup) progress() int {
	if s.ready {
		return 100
	}
	if len(s.steps) == 0 {
		return 0
	}
	completed := 0
	for _, step := range s.steps {
		if step.Completed {
			completed++
		}
	}
	return (completed * 100) / len(s.steps)
}

// ShowStartupStatus reports readiness as JSON, answering 503 until ready
func (s *Startup) ShowStartupStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := startupResponse{
		Ready:    s.ready && !s.draining,
		Current:  s.current,
		Progress: s.progress(),
		Steps:    append([]StartupStep(nil), s.steps...),
	}
	s.mu.RUnlock()

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	respondWithJSON(w, status, resp)
}

// Health answers liveness checks
func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
