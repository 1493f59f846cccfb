package service

import (
	"context"
	"time"

	"todo_api/internal/domain"
	"todo_api/internal/logger"

	"github.com/google/uuid"
)

// TodoStore is the record store as seen by the service
type TodoStore interface {
	List(ctx context.Context, f domain.TodoFilter) ([]*domain.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error)
	Create(ctx context.Context, t *domain.Todo) error
	Update(ctx context.Context, id uuid.UUID, p domain.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TodoCache is an optional read-through cache of single todos.
// Get returns (nil, nil) on a miss.
type TodoCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Todo, error)
	Set(ctx context.Context, t *domain.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Publisher receives committed mutations
type Publisher interface {
	Publish(ctx context.Context, ev domain.TodoEvent) error
}

type Option func(*TodoService)

func WithCache(c TodoCache) Option {
	return func(s *TodoService) { s.cache = c }
}

func WithPublisher(p Publisher) Option {
	return func(s *TodoService) { s.publisher = p }
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) { s.now = now }
}

// WithIDGenerator replaces uuid.New
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *TodoService) { s.newID = gen }
}

type TodoService struct {
	store     TodoStore
	cache     TodoCache
	publisher Publisher
	now       func() time.Time
	newID     func() uuid.UUID
}

func NewTodoService(store TodoStore, opts ...Option) *TodoService {
	s := &TodoService{
		store: store,
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TodoService) List(ctx context.Context, f domain.TodoFilter) ([]*domain.Todo, error) {
	return s.store.List(ctx, f)
}

func (s *TodoService) Get(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			logger.WithContext(ctx).Warn("todo cache read failed", "error", err, "todo_id", id)
		} else if cached != nil {
			return cached, nil
		}
	}

	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, t)
	return t, nil
}

func (s *TodoService) Create(ctx context.Context, in domain.CreateTodoInput) (*domain.Todo, error) {
	if in.Title == nil {
		return nil, domain.NewValidationError("title", "is required")
	}
	if *in.Title == "" {
		return nil, domain.NewValidationError("title", "must not be empty")
	}

	now := s.timestamp()
	t := &domain.Todo{
		ID:          s.newID(),
		Title:       *in.Title,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, t)
	s.publish(ctx, domain.EventTodoCreated, t.ID, t)
	return t, nil
}

// Update applies only the supplied fields. An empty title is rejected; an
// empty description is a valid value.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, in domain.UpdateTodoInput) (*domain.Todo, error) {
	if in.Title != nil && *in.Title == "" {
		return nil, domain.NewValidationError("title", "must not be empty")
	}

	t, err := s.store.Update(ctx, id, domain.TodoPatch{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		UpdatedAt:   s.timestamp(),
	})
	if err != nil {
		return nil, err
	}

	s.cacheDelete(ctx, id)
	s.publish(ctx, domain.EventTodoUpdated, id, t)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.cacheDelete(ctx, id)
	s.publish(ctx, domain.EventTodoDeleted, id, nil)
	return nil
}

// timestamp is truncated to the store's microsecond precision so a created
// todo compares equal to what a later read returns
func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *TodoService) cacheSet(ctx context.Context, t *domain.Todo) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, t); err != nil {
		logger.WithContext(ctx).Warn("todo cache write failed", "error", err, "todo_id", t.ID)
	}
}

func (s *TodoService) cacheDelete(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		logger.WithContext(ctx).Warn("todo cache invalidation failed", "error", err, "todo_id", id)
	}
}

func (s *TodoService) publish(ctx context.Context, typ domain.EventType, id uuid.UUID, t *domain.Todo) {
	if s.publisher == nil {
		return
	}
	ev := domain.TodoEvent{Type: typ, TodoID: id, Todo: t, At: s.now().UTC()}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.WithContext(ctx).Warn("publish todo event failed", "error", err, "event", typ, "todo_id", id)
	}
}
