package core

import (
	"context"
	"time"
)

type (
	Author struct {
		FirstName string `json:"firstName" bson:"firstName" validate:"required"`
		LastName  string `json:"lastName" bson:"lastName" validate:"required"`
	}

	BlogPost struct {
		ID      string    `json:"id" bson:"_id"`
		Title   string    `json:"title" bson:"title"`
		Author  Author    `json:"author" bson:"author"`
		Content string    `json:"content" bson:"content"`
		Created time.Time `json:"created" bson:"created"`
	}

	// PostPatch holds the fields of a partial update. Nil fields are left as they are.
	PostPatch struct {
		Title   *string
		Content *string
		Author  *Author
	}

	PostStore interface {
		FindAll(ctx context.Context) ([]*BlogPost, error)
		FindID(ctx context.Context, id string) (*BlogPost, error)
		Count(ctx context.Context) (int, error)
		Create(ctx context.Context, post *BlogPost) (string, error)
		Update(ctx context.Context, id string, patch *PostPatch) (*BlogPost, error)
		Delete(ctx context.Context, id string) error
		Close() error
	}
)

// AuthorName is the display form of the author, "FirstName LastName".
func (p *BlogPost) AuthorName() string {
	return p.Author.FirstName + " " + p.Author.LastName
}

func (p *BlogPost) Apply(patch *PostPatch) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
}

// Empty reports whether the patch changes nothing.
func (patch *PostPatch) Empty() bool {
	return patch == nil || (patch.Title == nil && patch.Content == nil && patch.Author == nil)
}

// Prepare fills the store-owned fields of a post that is about to be created. Created is
// kept to millisecond precision, the coarsest any backend stores.
func Prepare(post *BlogPost, id string, now time.Time) {
	post.ID = id
	if post.Created.IsZero() {
		post.Created = now.UTC()
	}
	post.Created = post.Created.Truncate(time.Millisecond)
}
