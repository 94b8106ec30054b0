package repo

import (
	"context"
	"sync"
	"time"

	dom "github.com/aamishhussain23/finacplus-assignment/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MemoryUserRepo implements UserRepo in process memory. Names are compared
// with the same case, accent and width folding as the Postgres name_ci
// collation.
type MemoryUserRepo struct {
	mu    sync.Mutex
	byID  map[string]dom.User
	order []string
	names *collate.Collator
	now   func() time.Time
}

// NewMemoryUserRepo returns an empty store.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:  make(map[string]dom.User),
		names: collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth),
		now:   time.Now,
	}
}

func (r *MemoryUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasKeyLocked(u.Key(), "") {
		return dom.User{}, ErrDuplicate
	}
	u.ID = newID()
	u.CreatedAt = r.now().UTC()
	r.byID[u.ID] = u
	r.order = append(r.order, u.ID)
	return u.Public(), nil
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	u, err := r.GetWithSecret(ctx, id)
	if err != nil {
		return dom.User{}, err
	}
	return u.Public(), nil
}

func (r *MemoryUserRepo) GetWithSecret(ctx context.Context, id string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) FindDuplicate(ctx context.Context, key dom.IdentityKey, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.hasKeyLocked(key, excludeID), nil
}

func (r *MemoryUserRepo) List(ctx context.Context) ([]dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]dom.User, 0, len(r.order))
	for _, id := range r.order {
		u := r.byID[id].Public()
		u.About = ""
		list = append(list, u)
	}
	return list, nil
}

func (r *MemoryUserRepo) Update(ctx context.Context, id string, patch dom.UserPatch) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	merged := patch.Apply(u)
	if r.hasKeyLocked(merged.Key(), id) {
		return dom.User{}, ErrDuplicate
	}
	r.byID[id] = merged
	return merged.Public(), nil
}

func (r *MemoryUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// hasKeyLocked must be called with mu held; the collator is not safe for
// concurrent use.
func (r *MemoryUserRepo) hasKeyLocked(key dom.IdentityKey, excludeID string) bool {
	for id, u := range r.byID {
		if id == excludeID {
			continue
		}
		if u.Age == key.Age && u.Gender == key.Gender && sameDate(u.DOB, key.DOB) &&
			r.names.CompareString(u.Name, key.Name) == 0 {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
