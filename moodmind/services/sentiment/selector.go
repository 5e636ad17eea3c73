package sentiment

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"moodmind/moodmind/utils/logging"
)

// Kind names one of the three backends.
type Kind string

const (
	KindRemote Kind = "remote"
	KindLocal  Kind = "local"
	KindStub   Kind = "stub"
)

// preference is the fallback cascade order.
var preference = []Kind{KindRemote, KindLocal, KindStub}

// Selector owns the three backend instances and decides which one is
// active. The active backend is cached until the kind changes or Reload
// is called; concurrent callers during invalidation may re-probe more
// than once, which is harmless because probes are side-effect-free.
type Selector struct {
	remote Service
	local  Service
	stub   Service

	mu     sync.Mutex
	kind   Kind
	active Service

	probes singleflight.Group
}

// NewSelector wires explicit backend instances (tests inject fakes here).
func NewSelector(remote, local, stub Service) *Selector {
	return &Selector{remote: remote, local: local, stub: stub, kind: KindRemote}
}

// NewSelectorFromURL builds the production trio against the remote
// analyzer's base URL.
func NewSelectorFromURL(remoteURL string) *Selector {
	return NewSelector(NewHTTPService(remoteURL), NewLocalService(), NewStubService())
}

func (s *Selector) byKind(k Kind) Service {
	switch k {
	case KindRemote:
		return s.remote
	case KindLocal:
		return s.local
	default:
		return s.stub
	}
}

// Active returns the currently selected backend, probing down the
// preference order from the recorded kind if nothing is cached.
func (s *Selector) Active(ctx context.Context) Service {
	s.mu.Lock()
	if s.active != nil {
		svc := s.active
		s.mu.Unlock()
		return svc
	}
	start := s.kind
	s.mu.Unlock()

	kind, svc := s.cascade(ctx, start)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller may have settled first; their pick is as good as ours.
	if s.active != nil {
		return s.active
	}
	if s.kind != kind {
		logging.AppLogger.Info("sentiment backend fallback",
			zap.String("requested", string(s.kind)),
			zap.String("selected", string(kind)),
		)
	}
	s.kind = kind
	s.active = svc
	return svc
}

// SetKind requests a specific backend. If it is unhealthy the selector
// cascades downward and records the kind that was actually activated.
func (s *Selector) SetKind(ctx context.Context, k Kind) Service {
	s.mu.Lock()
	if k != s.kind {
		logging.AppLogger.Info("sentiment backend override", zap.String("kind", string(k)))
	}
	s.kind = k
	s.active = nil
	s.mu.Unlock()
	return s.Active(ctx)
}

// Reload discards the cached backend so the next Active call re-probes.
// Useful after credentials or endpoints change.
func (s *Selector) Reload(ctx context.Context) Service {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
	logging.AppLogger.Info("sentiment backend reloading")
	return s.Active(ctx)
}

// Kind returns the currently recorded backend kind.
func (s *Selector) Kind() Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// cascade walks the preference order starting at the requested kind and
// returns the first healthy backend. The stub always reports healthy, so
// this cannot come up empty.
func (s *Selector) cascade(ctx context.Context, from Kind) (Kind, Service) {
	idx := 0
	for i, k := range preference {
		if k == from {
			idx = i
			break
		}
	}
	for _, k := range preference[idx:] {
		svc := s.byKind(k)
		if s.probe(ctx, k, svc) {
			return k, svc
		}
		logging.AppLogger.Warn("sentiment backend unavailable, falling back",
			zap.String("kind", string(k)))
	}
	return KindStub, s.stub
}

// probe dedupes concurrent health checks per backend kind.
func (s *Selector) probe(ctx context.Context, k Kind, svc Service) bool {
	v, _, _ := s.probes.Do(string(k), func() (interface{}, error) {
		return svc.Available(ctx), nil
	})
	healthy, _ := v.(bool)
	return healthy
}

// Diagnostics reports selector state for observability; nothing should
// branch on it.
type Diagnostics struct {
	Kind          Kind   `json:"kind"`
	RemoteHealthy bool   `json:"remote_healthy"`
	LocalHealthy  bool   `json:"local_healthy"`
	CachedSource  string `json:"cached_source,omitempty"`
}

func (s *Selector) Diagnostics(ctx context.Context) Diagnostics {
	d := Diagnostics{
		RemoteHealthy: s.probe(ctx, KindRemote, s.remote),
		LocalHealthy:  s.probe(ctx, KindLocal, s.local),
	}
	s.mu.Lock()
	d.Kind = s.kind
	if s.active != nil {
		d.CachedSource = s.active.Source()
	}
	s.mu.Unlock()
	return d
}
