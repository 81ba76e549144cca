package blog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"strings"

	"blog-serwer/internal/database"
	"blog-serwer/internal/models"
	"blog-serwer/internal/storage"

	"github.com/dustin/go-humanize"
)

// CreatePost stores content as the post filename of the caller.
//
// Order matters: the name is validated, the metadata row is claimed and only
// then is the content written. If the object write fails the row stays
// behind as orphaned metadata; there is no rollback across the two stores.
func (s *Service) CreatePost(ctx context.Context, id Identity, filename string, content []byte) (*models.Post, error) {
	if id.UserID == 0 || strings.TrimSpace(id.Username) == "" {
		return nil, invalid("identity", "caller is not identified")
	}

	name, err := SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	if !HasPostExtension(name) {
		return nil, invalid("filename", "only "+PostExtension+" files are allowed")
	}
	name = PostFilename(name)
	if int64(len(content)) > s.maxPostSize {
		return nil, invalid("content", "exceeds the maximum post size of "+humanize.IBytes(uint64(s.maxPostSize)))
	}

	post, err := s.claimPost(ctx, id, name)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(id.Username, name)
	if err := s.writeContent(ctx, key, content); err != nil {
		uploadFailures.WithLabelValues("object_store").Inc()
		logger.Errorf("post %s has metadata but its content write failed: %v", key, err)
		return nil, storageError("write post content", err)
	}

	postsCreated.Inc()
	logger.Infof("post %s created (%s)", key, humanize.Bytes(uint64(len(content))))

	s.journalEvent(ctx, id.UserID, database.EventPostCreated, map[string]interface{}{
		"post_id":  post.ID,
		"username": id.Username,
		"filename": post.Filename,
	})

	return post, nil
}

func (s *Service) claimPost(ctx context.Context, id Identity, name string) (*models.Post, error) {
	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()

	existing, err := s.store.GetPost(ctx, id.UserID, name)
	if err != nil {
		uploadFailures.WithLabelValues("metadata").Inc()
		return nil, metadataError("check post", err)
	}
	if existing != nil {
		logger.Debugf("post %s/%s already exists", id.Username, name)
		return nil, ErrDuplicatePost
	}

	post, err := s.store.InsertPost(ctx, id.UserID, name)
	if err != nil {
		if errors.Is(err, database.ErrDuplicatePost) {
			logger.Debugf("post %s/%s lost an insert race", id.Username, name)
			return nil, ErrDuplicatePost
		}
		uploadFailures.WithLabelValues("metadata").Inc()
		return nil, metadataError("insert post", err)
	}
	return post, nil
}

func (s *Service) writeContent(ctx context.Context, key string, content []byte) error {
	ctx, cancel := s.storageCtx(ctx)
	defer cancel()

	return s.objects.Save(ctx, key, bytes.NewReader(content), int64(len(content)))
}

func (s *Service) journalEvent(ctx context.Context, userID int64, eventType string, payload interface{}) {
	if s.journal == nil {
		return
	}
	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()

	if err := s.journal.LogEvent(ctx, userID, eventType, payload); err != nil {
		logger.Warningf("failed to journal %s for user %d: %v", eventType, userID, err)
	}
}

// RetrievePost returns the text of a post. postname may omit the extension.
func (s *Service) RetrievePost(ctx context.Context, username, postname string) (string, error) {
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return "", err
	}

	filename := PostFilename(postname)
	if name, err := SanitizeFilename(filename); err != nil || name != filename {
		// Such a name could never have been stored.
		return "", ErrPostNotFound
	}

	if err := s.requirePost(ctx, user.ID, filename); err != nil {
		return "", err
	}

	key := storage.ObjectKey(user.Username, filename)
	content, err := s.readContent(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			orphansDetected.Inc()
			logger.Warningf("orphaned metadata: post %s has no content in the object store", key)
			return "", orphanError(key)
		}
		return "", storageError("read post content", err)
	}

	return strings.ToValidUTF8(string(content), "�"), nil
}

func (s *Service) requirePost(ctx context.Context, userID int64, filename string) error {
	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()

	post, err := s.store.GetPost(ctx, userID, filename)
	if err != nil {
		return metadataError("find post", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	return nil
}

func (s *Service) readContent(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := s.storageCtx(ctx)
	defer cancel()

	rc, err := s.objects.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// ListPosts returns the filenames of username's posts. The user is resolved
// immediately; the sequence itself queries the store each time it is ranged
// over, so it always reflects current state.
func (s *Service) ListPosts(ctx context.Context, username string) (iter.Seq2[string, error], error) {
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}

	return func(yield func(string, error) bool) {
		ctx, cancel := s.metadataCtx(ctx)
		defer cancel()

		for post, err := range s.store.ListPosts(ctx, user.ID) {
			if err != nil {
				yield("", metadataError("list posts", err))
				return
			}
			if !yield(post.Filename, nil) {
				return
			}
		}
	}, nil
}

type orphanedPostError struct {
	key string
}

func orphanError(key string) error {
	return &orphanedPostError{key: key}
}

func (e *orphanedPostError) Error() string {
	return "post " + e.key + ": " + ErrOrphanedMetadata.Error()
}

// Is matches both ErrOrphanedMetadata and ErrPostNotFound.
func (e *orphanedPostError) Is(target error) bool {
	return target == ErrOrphanedMetadata || target == ErrPostNotFound
}
