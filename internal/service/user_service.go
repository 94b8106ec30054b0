package service

import (
	"context"
	"errors"
	"time"

	"github.com/aamishhussain23/finacplus-assignment/internal/auth"
	"github.com/aamishhussain23/finacplus-assignment/internal/cache"
	dom "github.com/aamishhussain23/finacplus-assignment/internal/domain"
	"github.com/aamishhussain23/finacplus-assignment/internal/repo"
	"github.com/aamishhussain23/finacplus-assignment/internal/validate"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// UserService implements the user directory operations on top of a
// UserRepo. Concurrent updates to one record are last-write-wins.
type UserService struct {
	repo   repo.UserRepo
	cache  *cache.UserCache
	hasher *auth.PasswordHasher
	log    *zap.Logger
	now    func() time.Time
	sf     singleflight.Group
}

// Option configures a UserService.
type Option func(*UserService)

// WithClock replaces time.Now, which the age/dob rule is evaluated against.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

// NewUserService creates a UserService. If c is nil, caching is disabled.
func NewUserService(r repo.UserRepo, c *cache.UserCache, h *auth.PasswordHasher, log *zap.Logger, opts ...Option) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &UserService{repo: r, cache: c, hasher: h, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the public profile of one user.
func (s *UserService) Get(ctx context.Context, id string) (dom.User, error) {
	load := func(ctx context.Context) (dom.User, error) {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return dom.User{}, s.storeError(err)
		}
		return u, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	// Callers joined to the flight must not inherit the first caller's cancellation.
	sctx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do("get:"+id, func() (interface{}, error) {
		if u, ok, err := s.cache.GetUser(sctx, id); err == nil && ok {
			return u, nil
		} else if err != nil {
			s.log.Warn("user cache read failed", zap.String("id", id), zap.Error(err))
		}
		gen, genErr := s.cache.Generation(sctx)
		u, err := load(sctx)
		if err != nil {
			return nil, err
		}
		if genErr != nil {
			s.log.Warn("user cache generation read failed", zap.Error(genErr))
		} else if err := s.cache.SetUser(sctx, u, gen); err != nil {
			s.log.Warn("user cache write failed", zap.String("id", id), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return dom.User{}, err
	}
	return v.(dom.User), nil
}

// List returns every user's summary fields in store order.
func (s *UserService) List(ctx context.Context) ([]dom.User, error) {
	load := func(ctx context.Context) ([]dom.User, error) {
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, s.storeError(err)
		}
		return list, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	sctx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do("list", func() (interface{}, error) {
		if list, err := s.cache.GetList(sctx); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.log.Warn("user list cache read failed", zap.Error(err))
		}
		gen, genErr := s.cache.Generation(sctx)
		list, err := load(sctx)
		if err != nil {
			return nil, err
		}
		if genErr != nil {
			s.log.Warn("user cache generation read failed", zap.Error(genErr))
		} else if err := s.cache.SetList(sctx, list, gen); err != nil {
			s.log.Warn("user list cache write failed", zap.Error(err))
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.User), nil
}

// Genders returns the fixed gender options.
func (s *UserService) Genders() []string {
	return validate.Genders()
}

// Create validates in, rejects duplicates and stores a new user with a
// hashed password.
func (s *UserService) Create(ctx context.Context, in validate.Input) (dom.User, error) {
	if err := validate.Check(in, validate.ModeCreate, s.now()); err != nil {
		return dom.User{}, newError(ErrBadRequest, err.Error())
	}
	dob, err := validate.ParseDOB(*in.DOB)
	if err != nil {
		return dom.User{}, newError(ErrBadRequest, err.Error())
	}
	u := dom.User{
		Name:   *in.Name,
		Age:    *in.Age,
		DOB:    dob,
		Gender: *in.Gender,
		About:  *in.About,
	}

	if err := s.ensureUnique(ctx, u.Key(), ""); err != nil {
		return dom.User{}, err
	}

	hash, err := s.hasher.Hash(*in.Password)
	if err != nil {
		return dom.User{}, internal(err)
	}
	u.PasswordHash = hash

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return dom.User{}, s.storeError(err)
	}
	s.invalidateCache(ctx, "")
	return created, nil
}

// Update checks password against the stored hash, validates the supplied
// fields and applies them. Fields left nil in `in` keep their value.
func (s *UserService) Update(ctx context.Context, id string, in validate.Input, password string) (dom.User, error) {
	if password == "" {
		return dom.User{}, newError(ErrBadRequest, msgPasswordRequired)
	}
	current, err := s.authorize(ctx, id, password)
	if err != nil {
		return dom.User{}, err
	}

	check := in
	check.Password = nil
	// The age/dob rule needs both halves; borrow the stored one.
	if in.Age != nil && in.DOB == nil {
		dob := validate.FormatDOB(current.DOB)
		check.DOB = &dob
	}
	if in.DOB != nil && in.Age == nil {
		age := current.Age
		check.Age = &age
	}
	if err := validate.Check(check, validate.ModeUpdate, s.now()); err != nil {
		return dom.User{}, newError(ErrBadRequest, err.Error())
	}

	patch := dom.UserPatch{Name: in.Name, Age: in.Age, Gender: in.Gender, About: in.About}
	if in.DOB != nil {
		dob, err := validate.ParseDOB(*in.DOB)
		if err != nil {
			return dom.User{}, newError(ErrBadRequest, err.Error())
		}
		patch.DOB = &dob
	}

	if err := s.ensureUnique(ctx, patch.Apply(current).Key(), id); err != nil {
		return dom.User{}, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return dom.User{}, s.storeError(err)
	}
	s.invalidateCache(ctx, id)
	return updated, nil
}

// Delete checks password against the stored hash and removes the user.
func (s *UserService) Delete(ctx context.Context, id, password string) error {
	if password == "" {
		return newError(ErrBadRequest, msgPasswordRequired)
	}
	if _, err := s.authorize(ctx, id, password); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError(err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

// authorize loads the record with its hash and verifies password.
func (s *UserService) authorize(ctx context.Context, id, password string) (dom.User, error) {
	u, err := s.repo.GetWithSecret(ctx, id)
	if err != nil {
		return dom.User{}, s.storeError(err)
	}
	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return dom.User{}, newError(ErrUnauthorized, msgBadPassword)
		}
		return dom.User{}, internal(err)
	}
	return u, nil
}

func (s *UserService) ensureUnique(ctx context.Context, key dom.IdentityKey, excludeID string) error {
	dup, err := s.repo.FindDuplicate(ctx, key, excludeID)
	if err != nil {
		return internal(err)
	}
	if dup {
		return newError(ErrConflict, msgExists)
	}
	return nil
}

// storeError maps repo failures onto service error kinds.
func (s *UserService) storeError(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return newError(ErrNotFound, msgNotFound)
	case errors.Is(err, repo.ErrDuplicate):
		return newError(ErrConflict, msgExists)
	default:
		return internal(err)
	}
}

func (s *UserService) invalidateCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("user cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}
