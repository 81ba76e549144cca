// Package blog implements the post upload and retrieval workflow on top of a
// relational metadata store and an object store, together with account
// registration and orphan reconciliation.
//
// The metadata store is the single source of truth for whether a post
// exists. A post is claimed by inserting its metadata row before any bytes
// are written, so a crash between the two writes leaves a visible orphaned
// row instead of an unreferenced object.
package blog

import (
	"context"
	"iter"
	"time"

	"blog-serwer/internal/database"
	"blog-serwer/internal/models"
	"blog-serwer/internal/storage"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("blog.workflow")

const (
	DefaultMetadataTimeout = 5 * time.Second
	DefaultStorageTimeout  = 10 * time.Second
	DefaultMaxPostSize     = 1 << 20
)

// MetadataStore is the relational store of users and posts.
type MetadataStore interface {
	InsertUser(ctx context.Context, arg database.InsertUserParams) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUser(ctx context.Context, login string) (*models.User, error)
	ListUsernames(ctx context.Context) ([]string, error)

	InsertPost(ctx context.Context, userID int64, filename string) (*models.Post, error)
	GetPost(ctx context.Context, userID int64, filename string) (*models.Post, error)
	ListPosts(ctx context.Context, userID int64) iter.Seq2[models.Post, error]
	ListAllPosts(ctx context.Context) iter.Seq2[database.OwnedPost, error]
	DeletePostByID(ctx context.Context, id int64) (bool, error)
}

// Journal records user-visible events. Failures never fail the operation
// that produced the event.
type Journal interface {
	LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error
}

// Identity is the authenticated caller as resolved by the session layer.
type Identity struct {
	UserID   int64
	Username string
}

type Options struct {
	MetadataTimeout   time.Duration
	StorageTimeout    time.Duration
	MaxPostSize       int64
	Journal           Journal
	// OrphanGracePeriod is how old a post row must be before missing content
	// counts as orphaned. It defaults to twice the storage timeout plus the
	// metadata timeout.
	OrphanGracePeriod time.Duration
}

type Service struct {
	store           MetadataStore
	objects         storage.ObjectStore
	journal         Journal
	metadataTimeout time.Duration
	storageTimeout  time.Duration
	maxPostSize     int64
	orphanGrace     time.Duration
}

func NewService(store MetadataStore, objects storage.ObjectStore, opts Options) *Service {
	s := &Service{
		store:           store,
		objects:         objects,
		journal:         opts.Journal,
		metadataTimeout: opts.MetadataTimeout,
		storageTimeout:  opts.StorageTimeout,
		maxPostSize:     opts.MaxPostSize,
		orphanGrace:     opts.OrphanGracePeriod,
	}
	if s.metadataTimeout <= 0 {
		s.metadataTimeout = DefaultMetadataTimeout
	}
	if s.storageTimeout <= 0 {
		s.storageTimeout = DefaultStorageTimeout
	}
	if s.maxPostSize <= 0 {
		s.maxPostSize = DefaultMaxPostSize
	}
	if s.orphanGrace <= 0 {
		s.orphanGrace = 2*s.storageTimeout + s.metadataTimeout
	}
	return s
}

func (s *Service) MaxPostSize() int64 {
	return s.maxPostSize
}

func (s *Service) metadataCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.metadataTimeout)
}

func (s *Service) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storageTimeout)
}

func (s *Service) lookupUser(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, metadataError("lookup user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) ListBloggers(ctx context.Context) ([]string, error) {
	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()

	usernames, err := s.store.ListUsernames(ctx)
	if err != nil {
		return nil, metadataError("list users", err)
	}
	return usernames, nil
}
