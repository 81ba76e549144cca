package blog

import (
	"context"
	"time"

	"blog-serwer/internal/storage"
)

// Orphan is a post row whose content is missing from the object store.
type Orphan struct {
	PostID   int64
	UserID   int64
	Username string
	Filename string
	Key      string
}

// FindOrphans scans every post and reports the ones without content. Rows
// younger than the orphan grace period are skipped: their upload may still be
// writing the content. It does not modify anything.
func (s *Service) FindOrphans(ctx context.Context) ([]Orphan, error) {
	var orphans []Orphan

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cutoff := time.Now().Add(-s.orphanGrace)
	for post, err := range s.store.ListAllPosts(listCtx) {
		if err != nil {
			return nil, metadataError("list all posts", err)
		}

		key := storage.ObjectKey(post.Username, post.Filename)
		if post.CreatedAt.After(cutoff) {
			logger.Debugf("post %s is too recent to judge, skipping", key)
			continue
		}

		exists, err := s.objectExists(ctx, key)
		if err != nil {
			return nil, storageError("check post content", err)
		}
		if exists {
			continue
		}

		orphansDetected.Inc()
		logger.Warningf("orphaned metadata: post %s has no content in the object store", key)
		orphans = append(orphans, Orphan{
			PostID:   post.ID,
			UserID:   post.UserID,
			Username: post.Username,
			Filename: post.Filename,
			Key:      key,
		})
	}

	return orphans, nil
}

// PruneOrphans deletes the metadata of every orphaned post and returns what
// was removed. Each orphan is checked again right before its row is deleted,
// and only that exact row is deleted.
func (s *Service) PruneOrphans(ctx context.Context) ([]Orphan, error) {
	orphans, err := s.FindOrphans(ctx)
	if err != nil {
		return nil, err
	}

	pruned := make([]Orphan, 0, len(orphans))
	for _, orphan := range orphans {
		exists, err := s.objectExists(ctx, orphan.Key)
		if err != nil {
			return pruned, storageError("recheck post content", err)
		}
		if exists {
			logger.Infof("post %s got its content after the scan, keeping it", orphan.Key)
			continue
		}

		deleted, err := s.deletePost(ctx, orphan.PostID)
		if err != nil {
			return pruned, metadataError("delete orphaned post", err)
		}
		if deleted {
			logger.Infof("removed orphaned metadata for %s", orphan.Key)
			pruned = append(pruned, orphan)
		}
	}
	return pruned, nil
}

func (s *Service) objectExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.storageCtx(ctx)
	defer cancel()
	return s.objects.Exists(ctx, key)
}

func (s *Service) deletePost(ctx context.Context, postID int64) (bool, error) {
	ctx, cancel := s.metadataCtx(ctx)
	defer cancel()
	return s.store.DeletePostByID(ctx, postID)
}
