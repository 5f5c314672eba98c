// Package storetest holds the behaviour every core.PostStore implementation has to show.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"blog-api/core"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/suite"
)

var titles = []string{
	"Fizz", "Bang", "Foo", "Bar", "Fizzbang", "Yolo", "I enjoy long walks on the beach",
}

// RandomPost builds an unsaved post with fake data.
func RandomPost() *core.BlogPost {
	return &core.BlogPost{
		Title: gofakeit.RandomString(titles),
		Author: core.Author{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
		},
		Content: gofakeit.Sentence(12),
		Created: gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC().Truncate(time.Millisecond),
	}
}

// Seed stores n random posts and returns their ids in creation order.
func Seed(ctx context.Context, store core.PostStore, n int) ([]string, error) {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := store.Create(ctx, RandomPost())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Suite runs the PostStore contract against the store returned by NewStore. NewStore is
// called before each test with that test's T and must hand back an empty store.
type Suite struct {
	suite.Suite
	NewStore func(t *testing.T) core.PostStore

	store core.PostStore
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore(s.T())
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *Suite) TestCreateAndFind() {
	post := RandomPost()
	id, err := s.store.Create(s.ctx, post)
	s.Require().NoError(err)
	s.NotEmpty(id)
	_, err = ulid.ParseStrict(id)
	s.NoError(err)

	found, err := s.store.FindID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, found.ID)
	s.Equal(post.Title, found.Title)
	s.Equal(post.Content, found.Content)
	s.Equal(post.Author, found.Author)
	s.True(post.Created.Equal(found.Created), "created %v != %v", post.Created, found.Created)
}

func (s *Suite) TestCreateDefaultsCreated() {
	before := time.Now().Add(-time.Second)
	post := RandomPost()
	post.Created = time.Time{}
	id, err := s.store.Create(s.ctx, post)
	s.Require().NoError(err)

	found, err := s.store.FindID(s.ctx, id)
	s.Require().NoError(err)
	s.False(found.Created.IsZero())
	s.True(found.Created.After(before))
	s.True(post.Created.Equal(found.Created), "created %v != stored %v", post.Created, found.Created)
}

func (s *Suite) TestIDsAreUnique() {
	ids, err := Seed(s.ctx, s.store, 20)
	s.Require().NoError(err)
	seen := make(map[string]bool)
	for _, id := range ids {
		s.False(seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func (s *Suite) TestFindMissing() {
	_, err := s.store.FindID(s.ctx, ulid.Make().String())
	s.True(errors.Is(err, core.ErrNotFound), "got %v", err)
}

func (s *Suite) TestFindAllAndCount() {
	posts, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(posts)

	ids, err := Seed(s.ctx, s.store, 10)
	s.Require().NoError(err)

	posts, err = s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Len(posts, 10)
	s.Equal(len(posts), count)
	for i, post := range posts {
		s.Equal(ids[i], post.ID)
	}
}

func (s *Suite) TestUpdate() {
	post := RandomPost()
	id, err := s.store.Create(s.ctx, post)
	s.Require().NoError(err)

	title := "This is a PUT test title change"
	content := "This content should have changed to match this paragraph"
	updated, err := s.store.Update(s.ctx, id, &core.PostPatch{Title: &title, Content: &content})
	s.Require().NoError(err)
	s.Equal(id, updated.ID)
	s.Equal(title, updated.Title)
	s.Equal(content, updated.Content)
	s.Equal(post.Author, updated.Author)

	found, err := s.store.FindID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(title, found.Title)
	s.Equal(content, found.Content)
	s.Equal(post.Author, found.Author)
	s.True(post.Created.Equal(found.Created))

	author := core.Author{FirstName: "Grace", LastName: "Hopper"}
	found, err = s.store.Update(s.ctx, id, &core.PostPatch{Author: &author})
	s.Require().NoError(err)
	s.Equal(author, found.Author)
	s.Equal(title, found.Title)
}

func (s *Suite) TestUpdateEmptyPatch() {
	post := RandomPost()
	id, err := s.store.Create(s.ctx, post)
	s.Require().NoError(err)

	found, err := s.store.Update(s.ctx, id, &core.PostPatch{})
	s.Require().NoError(err)
	s.Equal(post.Title, found.Title)
}

func (s *Suite) TestUpdateMissing() {
	title := "nope"
	_, err := s.store.Update(s.ctx, ulid.Make().String(), &core.PostPatch{Title: &title})
	s.True(errors.Is(err, core.ErrNotFound), "got %v", err)

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *Suite) TestDelete() {
	ids, err := Seed(s.ctx, s.store, 3)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, ids[1]))
	_, err = s.store.FindID(s.ctx, ids[1])
	s.True(errors.Is(err, core.ErrNotFound), "got %v", err)

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	// deleting again, or deleting something that never existed, is fine
	s.NoError(s.store.Delete(s.ctx, ids[1]))
	s.NoError(s.store.Delete(s.ctx, ulid.Make().String()))
}
