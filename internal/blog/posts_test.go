package blog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"blog-serwer/internal/database"
	"blog-serwer/internal/storage"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *fakeStore
	objects *fakeObjects
	journal *fakeJournal
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   newFakeStore(),
		objects: newFakeObjects(),
		journal: &fakeJournal{},
	}
	f.svc = NewService(f.store, f.objects, Options{
		MetadataTimeout: time.Second,
		StorageTimeout:  time.Second,
		MaxPostSize:     1024,
		Journal:         f.journal,
	})
	return f
}

func (f *fixture) identity(username string) Identity {
	user := f.store.addUser(username)
	return Identity{UserID: user.ID, Username: user.Username}
}

func listNames(t *testing.T, svc *Service, username string) []string {
	t.Helper()
	seq, err := svc.ListPosts(context.Background(), username)
	require.NoError(t, err)
	names := []string{}
	for name, err := range seq {
		require.NoError(t, err)
		names = append(names, name)
	}
	return names
}

func TestCreateAndRetrievePost(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, alice, "note.txt", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "note.txt", post.Filename)
	require.Equal(t, alice.UserID, post.UserID)

	content, ok := f.objects.content("alice/note.txt")
	require.True(t, ok)
	require.Equal(t, "hello", string(content))

	text, err := f.svc.RetrievePost(ctx, "alice", "note")
	require.NoError(t, err)
	require.Equal(t, "hello", text)

	text, err = f.svc.RetrievePost(ctx, "alice", "note.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", text)

	require.Equal(t, []string{"note.txt"}, listNames(t, f.svc, "alice"))

	_, err = f.svc.CreatePost(ctx, alice, "note.txt", []byte("again"))
	require.ErrorIs(t, err, ErrDuplicatePost)

	require.Len(t, f.journal.events, 1)
	require.Equal(t, database.EventPostCreated, f.journal.events[0].eventType)
}

func TestCreatePost_DuplicateDoesNotTouchObjectStore(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, alice, "note.txt", []byte("original"))
	require.NoError(t, err)
	require.Equal(t, 1, f.objects.saveCount())

	_, err = f.svc.CreatePost(ctx, alice, "note.txt", []byte("overwrite attempt"))
	require.ErrorIs(t, err, ErrDuplicatePost)
	require.Equal(t, 1, f.objects.saveCount(), "no object-store write for a duplicate")

	text, err := f.svc.RetrievePost(ctx, "alice", "note")
	require.NoError(t, err)
	require.Equal(t, "original", text)
}

func TestCreatePost_SameNameForDifferentUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, f.identity("alice"), "note.txt", []byte("from alice"))
	require.NoError(t, err)
	_, err = f.svc.CreatePost(ctx, f.identity("bob"), "note.txt", []byte("from bob"))
	require.NoError(t, err)

	text, err := f.svc.RetrievePost(ctx, "bob", "note")
	require.NoError(t, err)
	require.Equal(t, "from bob", text)
}

func TestCreatePost_ValidationHappensBeforeAnyStore(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	ctx := context.Background()

	cases := []struct {
		name     string
		id       Identity
		filename string
		content  []byte
	}{
		{"wrong extension", alice, "note.md", []byte("x")},
		{"no extension", alice, "note", []byte("x")},
		{"bare extension", alice, ".txt", []byte("x")},
		{"path separator", alice, "../bob/note.txt", []byte("x")},
		{"backslash", alice, `..\note.txt`, []byte("x")},
		{"nul byte", alice, "note\x00.txt", []byte("x")},
		{"dot dot", alice, "..", []byte("x")},
		{"only unsafe characters", alice, "???", []byte("x")},
		{"empty identity", Identity{}, "note.txt", []byte("x")},
		{"too large", alice, "big.txt", make([]byte, 1025)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePost(ctx, tc.id, tc.filename, tc.content)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
		})
	}

	require.Equal(t, 0, f.store.postCount())
	require.Equal(t, 0, f.objects.saveCount())
	require.Empty(t, listNames(t, f.svc, "alice"))
}

func TestCreatePost_ExtensionIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")

	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, alice, "Shout.TXT", []byte("HI"))
	require.NoError(t, err)
	require.Equal(t, "Shout.txt", post.Filename, "the extension is stored lower-case")

	_, ok := f.objects.content("alice/Shout.txt")
	require.True(t, ok)

	for _, name := range []string{"Shout.TXT", "Shout.txt", "Shout", PostName(post.Filename)} {
		text, err := f.svc.RetrievePost(ctx, "alice", name)
		require.NoError(t, err, name)
		require.Equal(t, "HI", text)
	}

	_, err = f.svc.CreatePost(ctx, alice, "Shout.Txt", []byte("again"))
	require.ErrorIs(t, err, ErrDuplicatePost)
}

func TestCreatePost_SanitizesFilename(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")

	post, err := f.svc.CreatePost(context.Background(), alice, "my first post.txt", []byte("x"))
	require.NoError(t, err)
	require.Equal(t, "my_first_post.txt", post.Filename)

	_, ok := f.objects.content("alice/my_first_post.txt")
	require.True(t, ok)
}

func TestCreatePost_EmptyContentIsAccepted(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")

	_, err := f.svc.CreatePost(context.Background(), alice, "empty.txt", nil)
	require.NoError(t, err)

	text, err := f.svc.RetrievePost(context.Background(), "alice", "empty")
	require.NoError(t, err)
	require.Equal(t, "", text)
}

func TestCreatePost_LostInsertRaceIsDuplicate(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, alice, "note.txt", []byte("first"))
	require.NoError(t, err)

	f.store.skipExistenceCheck = true
	_, err = f.svc.CreatePost(ctx, alice, "note.txt", []byte("second"))
	require.ErrorIs(t, err, ErrDuplicatePost)
	require.Equal(t, 1, f.objects.saveCount())
}

func TestCreatePost_ConcurrentSameName(t *testing.T) {
	f := newFixture(t)
	f.store.insertDelay = 20 * time.Millisecond
	alice := f.identity("alice")

	const attempts = 2
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.CreatePost(context.Background(), alice, "race.txt", []byte("content"))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrDuplicatePost)
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, []string{"race.txt"}, listNames(t, f.svc, "alice"))
	require.Equal(t, 1, f.objects.saveCount())
}

func TestCreatePost_ObjectStoreFailureLeavesOrphan(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	ctx := context.Background()

	cause := errors.New("connection reset")
	f.objects.saveErr = cause

	_, err := f.svc.CreatePost(ctx, alice, "note.txt", []byte("hello"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorIs(t, err, cause)

	require.Equal(t, []string{"note.txt"}, listNames(t, f.svc, "alice"), "metadata is not rolled back")
	require.Empty(t, f.journal.events)

	_, err = f.svc.RetrievePost(ctx, "alice", "note")
	require.ErrorIs(t, err, ErrPostNotFound)
	require.ErrorIs(t, err, ErrOrphanedMetadata)
}

func TestCreatePost_MetadataFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	f.store.err = errors.New("connection refused")

	_, err := f.svc.CreatePost(context.Background(), alice, "note.txt", []byte("x"))
	require.ErrorIs(t, err, ErrMetadataUnavailable)
	require.Equal(t, 0, f.objects.saveCount())
}

func TestCreatePost_StorageTimeout(t *testing.T) {
	store := newFakeStore()
	objects := newFakeObjects()
	objects.block = true
	svc := NewService(store, objects, Options{StorageTimeout: 20 * time.Millisecond})

	user := store.addUser("alice")
	_, err := svc.CreatePost(context.Background(), Identity{UserID: user.ID, Username: "alice"}, "slow.txt", []byte("x"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCreatePost_JournalFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.journal.err = errors.New("journal down")

	_, err := f.svc.CreatePost(context.Background(), f.identity("alice"), "note.txt", []byte("x"))
	require.NoError(t, err)
}

func TestRetrievePost_NotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	ctx := context.Background()

	_, err := f.svc.RetrievePost(ctx, "nobody", "note")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.RetrievePost(ctx, "alice", "missing")
	require.ErrorIs(t, err, ErrPostNotFound)
	require.NotErrorIs(t, err, ErrOrphanedMetadata)

	_, err = f.svc.RetrievePost(ctx, "alice", "../../etc/passwd")
	require.ErrorIs(t, err, ErrPostNotFound)

	// Content without metadata is not a post.
	require.NoError(t, f.objects.Save(ctx, storage.ObjectKey("alice", "stray.txt"), strings.NewReader(""), 0))
	_, err = f.svc.RetrievePost(ctx, "alice", "stray")
	require.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.svc.CreatePost(ctx, alice, "real.txt", []byte("x"))
	require.NoError(t, err)
	f.objects.getErr = errors.New("access denied")
	_, err = f.svc.RetrievePost(ctx, "alice", "real")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.NotErrorIs(t, err, ErrPostNotFound)
}

func TestRetrievePost_InvalidUTF8IsReplaced(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")

	_, err := f.svc.CreatePost(context.Background(), alice, "bin.txt", []byte{'o', 'k', 0xff})
	require.NoError(t, err)

	text, err := f.svc.RetrievePost(context.Background(), "alice", "bin")
	require.NoError(t, err)
	require.Equal(t, "ok�", text)
}

func TestListPosts(t *testing.T) {
	f := newFixture(t)
	alice := f.identity("alice")
	ctx := context.Background()

	_, err := f.svc.ListPosts(ctx, "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)

	require.Empty(t, listNames(t, f.svc, "alice"))

	seq, err := f.svc.ListPosts(ctx, "alice")
	require.NoError(t, err)

	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := f.svc.CreatePost(ctx, alice, name, []byte(name))
		require.NoError(t, err)
	}

	var first []string
	for name, err := range seq {
		require.NoError(t, err)
		first = append(first, name)
	}
	require.Equal(t, []string{"a.txt", "b.txt"}, first, "the sequence reads current state, not a snapshot")

	_, err = f.svc.CreatePost(ctx, alice, "c.txt", []byte("c"))
	require.NoError(t, err)

	var second []string
	for name, err := range seq {
		require.NoError(t, err)
		second = append(second, name)
	}
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, second)
}

func TestListPosts_MetadataFailureSurfacesInSequence(t *testing.T) {
	f := newFixture(t)
	f.identity("alice")

	seq, err := f.svc.ListPosts(context.Background(), "alice")
	require.NoError(t, err)

	f.store.err = errors.New("connection lost")
	for _, err := range seq {
		require.ErrorIs(t, err, ErrMetadataUnavailable)
	}
}

func TestListBloggers(t *testing.T) {
	f := newFixture(t)
	f.identity("bob")
	f.identity("alice")

	names, err := f.svc.ListBloggers(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, names)
}
