package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/cache"
	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/repo"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidPosition = errors.New("position must not be negative")
)

// DefaultColumnTitle names the column seeded into an empty board.
const DefaultColumnTitle = "Todo"

const boardFlight = "board"

type BoardService struct {
	repo  repo.BoardRepo
	cache *cache.BoardCache
	sf    singleflight.Group

	// gen counts cache invalidations. A snapshot is stored only if no write
	// invalidated the cache while it was being loaded.
	mu  sync.Mutex
	gen uint64
}

// NewBoardService creates a BoardService. If c is nil, caching is disabled.
func NewBoardService(r repo.BoardRepo, c *cache.BoardCache) *BoardService {
	return &BoardService{repo: r, cache: c}
}

// EnsureDefaultColumn seeds DefaultColumnTitle when the board has no columns.
func (s *BoardService) EnsureDefaultColumn(ctx context.Context) error {
	seeded, err := s.repo.SeedColumn(ctx, DefaultColumnTitle)
	if err != nil {
		return fmt.Errorf("seed column: %w", err)
	}
	if seeded {
		log.WithField("title", DefaultColumnTitle).Info("seeded default column")
		s.invalidateCache(ctx)
	}
	return nil
}

// Board returns the full snapshot: columns by id, tasks by position.
//
// Concurrent callers share one load. The shared load does not stop when a
// single caller's context is cancelled; that caller just stops waiting.
func (s *BoardService) Board(ctx context.Context) (dom.Board, error) {
	if s.cache == nil {
		return s.loadBoard(ctx)
	}
	ch := s.sf.DoChan(boardFlight, func() (interface{}, error) {
		return s.loadCached(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return dom.Board{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return dom.Board{}, res.Err
		}
		return res.Val.(dom.Board), nil
	}
}

func (s *BoardService) loadCached(ctx context.Context) (dom.Board, error) {
	if b, err := s.cache.Get(ctx); err == nil && b != nil {
		return *b, nil
	}
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	b, err := s.loadBoard(ctx)
	if err != nil {
		return dom.Board{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return b, nil
	}
	if err := s.cache.Set(ctx, b); err != nil {
		log.WithError(err).Warn("board cache set failed")
	}
	return b, nil
}

func (s *BoardService) loadBoard(ctx context.Context) (dom.Board, error) {
	cols, err := s.repo.ListColumns(ctx)
	if err != nil {
		return dom.Board{}, fmt.Errorf("list columns: %w", err)
	}
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return dom.Board{}, fmt.Errorf("list tasks: %w", err)
	}
	return dom.Board{Columns: cols, Tasks: tasks}, nil
}

func (s *BoardService) CreateColumn(ctx context.Context, title string) (dom.Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Column{}, ErrEmptyTitle
	}
	c, err := s.repo.CreateColumn(ctx, title)
	if err != nil {
		return dom.Column{}, err
	}
	s.invalidateCache(ctx)
	return c, nil
}

// DeleteColumn removes the column row only; its tasks stay behind.
func (s *BoardService) DeleteColumn(ctx context.Context, id int64) error {
	return s.mustAffect(ctx, func() (int64, error) { return s.repo.DeleteColumn(ctx, id) })
}

// DeleteColumnCascade removes the column and its tasks atomically.
func (s *BoardService) DeleteColumnCascade(ctx context.Context, id int64) error {
	return s.mustAffect(ctx, func() (int64, error) { return s.repo.DeleteColumnCascade(ctx, id) })
}

// DeleteColumnTasks removes every task whose status is colID. An empty
// column is not an error.
func (s *BoardService) DeleteColumnTasks(ctx context.Context, colID int64) (int64, error) {
	n, err := s.repo.DeleteTasksByStatus(ctx, colID)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx)
	return n, nil
}

func (s *BoardService) CreateTask(ctx context.Context, title string, status int64) (dom.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, ErrEmptyTitle
	}
	t, err := s.repo.CreateTask(ctx, title, status)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// MoveTask sets status and position as given. Neighbouring tasks are not
// renumbered; keeping positions contiguous is up to the caller.
func (s *BoardService) MoveTask(ctx context.Context, id, status int64, position int) error {
	if position < 0 {
		return ErrInvalidPosition
	}
	return s.mustAffect(ctx, func() (int64, error) { return s.repo.MoveTask(ctx, id, status, position) })
}

func (s *BoardService) RenameTask(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	return s.mustAffect(ctx, func() (int64, error) { return s.repo.RenameTask(ctx, id, title) })
}

// SetTaskDescription stores description as given, whitespace included.
func (s *BoardService) SetTaskDescription(ctx context.Context, id int64, description string) error {
	return s.mustAffect(ctx, func() (int64, error) { return s.repo.SetTaskDescription(ctx, id, description) })
}

// ReorderTasks moves ids into column status at positions 0..len(ids)-1.
func (s *BoardService) ReorderTasks(ctx context.Context, status int64, ids []int64) error {
	if err := s.repo.ReorderTasks(ctx, status, ids); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// mustAffect runs a write and maps zero affected rows to ErrNotFound.
func (s *BoardService) mustAffect(ctx context.Context, write func() (int64, error)) error {
	n, err := write()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

// invalidateCache drops the cached snapshot after a committed write. Loads
// already in flight are forgotten so later readers start a fresh one.
func (s *BoardService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.sf.Forget(boardFlight)
	if err := s.cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("board cache invalidate failed")
	}
}
