package api

import (
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// readiness holds named dependency checks for /readyz.
type readiness struct {
	mu     sync.RWMutex
	checks map[string]func() error
}

// AddCheck registers a dependency probe; /readyz answers 503 while any fails.
func (s *Server) AddCheck(name string, check func() error) {
	s.ready.mu.Lock()
	defer s.ready.mu.Unlock()
	if s.ready.checks == nil {
		s.ready.checks = make(map[string]func() error)
	}
	s.ready.checks[name] = check
}

func (s *Server) handleReady(c *gin.Context) {
	s.ready.mu.RLock()
	names := make([]string, 0, len(s.ready.checks))
	for n := range s.ready.checks {
		names = append(names, n)
	}
	checks := s.ready.checks
	s.ready.mu.RUnlock()
	sort.Strings(names)

	failed := gin.H{}
	for _, n := range names {
		if err := checks[n](); err != nil {
			failed[n] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}
