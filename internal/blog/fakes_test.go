package blog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"

	"blog-serwer/internal/database"
	"blog-serwer/internal/models"
	"blog-serwer/internal/storage"
)

type postKey struct {
	userID   int64
	filename string
}

// fakeStore enforces the same uniqueness rules as the SQL schema.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
	posts  map[postKey]*models.Post

	err error
	// skipExistenceCheck makes GetPost report nothing, as if a concurrent
	// insert happened right after the check.
	skipExistenceCheck bool
	// insertDelay widens the window between check and insert.
	insertDelay time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*models.User),
		posts: make(map[postKey]*models.Post),
	}
}

func (f *fakeStore) addUser(username string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user := &models.User{ID: f.nextID, Username: username, Email: username + "@example.com"}
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) InsertUser(ctx context.Context, arg database.InsertUserParams) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == arg.Username {
			return nil, database.ErrUsernameTaken
		}
		if u.Email == strings.ToLower(arg.Email) {
			return nil, database.ErrEmailTaken
		}
	}
	f.nextID++
	user := &models.User{
		ID:           f.nextID,
		Username:     arg.Username,
		Email:        strings.ToLower(arg.Email),
		PasswordHash: arg.PasswordHash,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUser(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == login || u.Email == strings.ToLower(login) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListUsernames(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	names := []string{}
	for _, u := range f.users {
		names = append(names, u.Username)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) InsertPost(ctx context.Context, userID int64, filename string) (*models.Post, error) {
	if f.insertDelay > 0 {
		time.Sleep(f.insertDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := postKey{userID, filename}
	if _, ok := f.posts[k]; ok {
		return nil, database.ErrDuplicatePost
	}
	f.nextID++
	post := &models.Post{ID: f.nextID, UserID: userID, Filename: filename, CreatedAt: time.Now()}
	f.posts[k] = post
	return post, nil
}

func (f *fakeStore) GetPost(ctx context.Context, userID int64, filename string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.skipExistenceCheck {
		return nil, nil
	}
	return f.posts[postKey{userID, filename}], nil
}

func (f *fakeStore) sortedPosts(match func(*models.Post) bool) []models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	var posts []models.Post
	for _, p := range f.posts {
		if match(p) {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts
}

func (f *fakeStore) currentErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeStore) ListPosts(ctx context.Context, userID int64) iter.Seq2[models.Post, error] {
	return func(yield func(models.Post, error) bool) {
		if err := f.currentErr(); err != nil {
			yield(models.Post{}, err)
			return
		}
		for _, p := range f.sortedPosts(func(p *models.Post) bool { return p.UserID == userID }) {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (f *fakeStore) ListAllPosts(ctx context.Context) iter.Seq2[database.OwnedPost, error] {
	return func(yield func(database.OwnedPost, error) bool) {
		if err := f.currentErr(); err != nil {
			yield(database.OwnedPost{}, err)
			return
		}
		for _, p := range f.sortedPosts(func(*models.Post) bool { return true }) {
			f.mu.Lock()
			username := f.users[p.UserID].Username
			f.mu.Unlock()
			if !yield(database.OwnedPost{Post: p, Username: username}, nil) {
				return
			}
		}
	}
}

func (f *fakeStore) DeletePostByID(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for k, p := range f.posts {
		if p.ID == id {
			delete(f.posts, k)
			return true, nil
		}
	}
	return false, nil
}

// backdate makes every stored post look d older.
func (f *fakeStore) backdate(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		p.CreatedAt = p.CreatedAt.Add(-d)
	}
}

func (f *fakeStore) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	saves   int
	saveErr error
	getErr  error
	// block makes every call wait until the context is done.
	block bool
	// gate, when set, holds Save until it is closed.
	gate chan struct{}
	// afterExists runs after every Exists lookup.
	afterExists func(key string)
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) Save(ctx context.Context, key string, data io.Reader, size int64) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return fmt.Errorf("size mismatch: got %d want %d", len(b), size)
	}
	f.objects[key] = b
	return nil
}

func (f *fakeObjects) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, storage.ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeObjects) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	err := f.getErr
	_, ok := f.objects[key]
	hook := f.afterExists
	f.mu.Unlock()

	if err != nil {
		return false, err
	}
	if hook != nil {
		hook(key)
	}
	return ok, nil
}

func (f *fakeObjects) put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

func (f *fakeObjects) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeObjects) content(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	return b, ok
}

type recordedEvent struct {
	userID    int64
	eventType string
}

type fakeJournal struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (j *fakeJournal) LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.events = append(j.events, recordedEvent{userID, eventType})
	return nil
}
