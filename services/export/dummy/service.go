package dummyexport

import (
	"sync"

	"github.com/ieee-its/nightslip/core"
)

// Service counts Export calls so tests can assert that a write triggered
// (or did not trigger) an export.
type Service struct {
	mu    sync.Mutex
	calls int
}

var _ core.ExportService = (*Service)(nil)

func NewService() *Service {
	return &Service{}
}

func (svc *Service) Export() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.calls++
}

func (svc *Service) Calls() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.calls
}

func (svc *Service) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.calls = 0
}
