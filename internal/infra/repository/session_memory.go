package repository

import (
	"context"
	"sync"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

type memorySessionEntry struct {
	mu        sync.Mutex
	session   model.Session
	expiresAt time.Time
}

// プロセス内メモリにセッションを持つ（1プロセス構成用）。
// セッションごとにロックを持ち、同じセッションの更新は直列になる。
type SessionMemoryRepository struct {
	mu      sync.Mutex
	entries map[string]*memorySessionEntry
	ttl     time.Duration
	now     func() time.Time
}

// DI
func NewSessionMemoryRepository(ttl time.Duration) *SessionMemoryRepository {
	return NewSessionMemoryRepositoryWithClock(ttl, time.Now)
}

// テスト用に時計を差し替える
func NewSessionMemoryRepositoryWithClock(ttl time.Duration, now func() time.Time) *SessionMemoryRepository {
	return &SessionMemoryRepository{
		entries: make(map[string]*memorySessionEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (r *SessionMemoryRepository) Create(ctx context.Context, s model.Session) error {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[s.ID] = &memorySessionEntry{
		session:   s.Clone(),
		expiresAt: r.expiry(now),
	}
	return nil
}

func (r *SessionMemoryRepository) FindByID(ctx context.Context, id string) (model.Session, error) {
	e, ok := r.lookup(id)
	if !ok {
		return model.Session{}, repo.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

func (r *SessionMemoryRepository) Update(ctx context.Context, id string, fn func(s *model.Session)) (model.Session, error) {
	e, ok := r.lookup(id)
	if !ok {
		return model.Session{}, repo.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Session{}, err
	}

	s := e.session.Clone()
	fn(&s)
	now := r.now()
	s.UpdatedAt = now

	// lookup 後に Sweep/Delete で消えていたら書かない。expiresAt は r.mu で守る
	r.mu.Lock()
	if r.entries[id] != e {
		r.mu.Unlock()
		return model.Session{}, repo.ErrNotFound
	}
	e.session = s
	e.expiresAt = r.expiry(now)
	r.mu.Unlock()

	return s.Clone(), nil
}

func (r *SessionMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

// 期限切れを掃除して、消した件数を返す
func (r *SessionMemoryRepository) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.entries {
		if r.expired(e, now) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// 定期的に Sweep する（ctxが終わるまで）
func (r *SessionMemoryRepository) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

func (r *SessionMemoryRepository) lookup(id string) (*memorySessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	if r.expired(e, r.now()) {
		delete(r.entries, id)
		return nil, false
	}
	return e, true
}

// ttl<=0 は無期限
func (r *SessionMemoryRepository) expiry(now time.Time) time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(r.ttl)
}

func (r *SessionMemoryRepository) expired(e *memorySessionEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
