package service

import (
	"context"
	"time"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/pkg/cache"

	"github.com/rs/zerolog/log"
)

const DefaultCacheTTL = 5 * time.Minute

// BookService implements ServiceInterface.
type BookService struct {
	repo     repository.RepositoryInterface
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService - cache may be cache.NewNop() when caching is disabled.
func NewService(repo repository.RepositoryInterface, c cache.Cache, ttl time.Duration) ServiceInterface {
	if c == nil {
		c = cache.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &BookService{repo: repo, cache: c, cacheTTL: ttl}
}

// ============================================
// QUERY (page / pageSize / category)
// ============================================

func (s *BookService) Query(ctx context.Context, q model.PageQuery) (*model.PageResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	version, cacheable := s.keyspace(ctx)
	cacheKey := model.ListCacheKey(version, q)
	var cached model.PageResult
	if cacheable && s.cacheGet(ctx, cacheKey, &cached) {
		if cached.Books == nil {
			cached.Books = []model.Book{}
		}
		return &cached, nil
	}

	books, total, err := s.repo.ListPage(ctx, q.Filter())
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}

	result := &model.PageResult{Books: books, TotalBooks: total}
	if cacheable {
		s.cacheSet(ctx, cacheKey, result)
	}
	return result, nil
}

func (s *BookService) Categories(ctx context.Context) ([]string, error) {
	version, cacheable := s.keyspace(ctx)
	cacheKey := model.CategoriesCacheKey(version)
	var categories []string
	if cacheable && s.cacheGet(ctx, cacheKey, &categories) && categories != nil {
		return categories, nil
	}

	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cacheSet(ctx, cacheKey, categories)
	}
	return categories, nil
}

// ============================================
// CRUD
// ============================================

func (s *BookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	if id < 1 {
		return nil, model.ErrBookNotFound
	}

	version, cacheable := s.keyspace(ctx)
	cacheKey := model.DetailCacheKey(version, id)
	var cached model.Book
	if cacheable && s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cacheSet(ctx, cacheKey, b)
	}
	return b, nil
}

func (s *BookService) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	b := req.ToBook(0)
	if err := s.repo.Create(ctx, &b); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	log.Info().Int64("book_id", b.BookID).Str("category", b.Category).Msg("[BookService] Book created")
	return &b, nil
}

// UpdateBook is a full replace; the id is preserved.
func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error) {
	if id < 1 {
		return nil, model.ErrBookNotFound
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	b := req.ToBook(id)
	if err := s.repo.Update(ctx, &b); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	log.Info().Int64("book_id", id).Msg("[BookService] Book updated")
	return &b, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if id < 1 {
		return model.ErrBookNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	log.Info().Int64("book_id", id).Msg("[BookService] Book deleted")
	return nil
}

func (s *BookService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// ============================================
// CACHE HELPERS
// Cache failures are logged and bypassed, never returned.
// ============================================

func (s *BookService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[BookService] Cache GET failed")
		return false
	}
	return found
}

func (s *BookService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[BookService] Cache SET failed")
	}
}

// keyspace reads the current cache generation before the store is touched.
// A read that races a write fills the old generation, which nobody reads
// after invalidate. cacheable=false bypasses the cache for this call.
func (s *BookService) keyspace(ctx context.Context) (version int64, cacheable bool) {
	if _, err := s.cache.Get(ctx, model.VersionCacheKey, &version); err != nil {
		log.Warn().Err(err).Str("key", model.VersionCacheKey).Msg("[BookService] Cache version read failed")
		return 0, false
	}
	return version, true
}

// invalidate moves readers to a new generation, then drops the data keys of
// the old ones so the next read after a mutation reflects the store.
func (s *BookService) invalidate(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, model.VersionCacheKey); err != nil {
		log.Warn().Err(err).Msg("[BookService] Cache version bump failed")
	}
	if err := s.cache.DeletePattern(ctx, model.CacheKeyPattern); err != nil {
		log.Warn().Err(err).Msg("[BookService] Cache invalidation failed")
	}
}
