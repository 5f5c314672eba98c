package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAuthorName(t *testing.T) {
	post := &BlogPost{Author: Author{FirstName: "A", LastName: "B"}}
	assert.Equal(t, "A B", post.AuthorName())
}

func TestApply(t *testing.T) {
	post := &BlogPost{
		ID:      "id",
		Title:   "Fizz",
		Author:  Author{FirstName: "Ada", LastName: "Lovelace"},
		Content: "old",
	}

	post.Apply(&PostPatch{Title: strPtr("Bang"), Content: strPtr("new")})
	assert.Equal(t, "Bang", post.Title)
	assert.Equal(t, "new", post.Content)
	assert.Equal(t, Author{FirstName: "Ada", LastName: "Lovelace"}, post.Author)

	post.Apply(&PostPatch{Author: &Author{FirstName: "Grace", LastName: "Hopper"}})
	assert.Equal(t, "Grace Hopper", post.AuthorName())
	assert.Equal(t, "Bang", post.Title)

	post.Apply(nil)
	assert.Equal(t, "id", post.ID)
}

func TestPatchEmpty(t *testing.T) {
	var nilPatch *PostPatch
	assert.True(t, nilPatch.Empty())
	assert.True(t, (&PostPatch{}).Empty())
	assert.False(t, (&PostPatch{Title: strPtr("")}).Empty())
}

func TestPrepare(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))

	post := &BlogPost{}
	Prepare(post, "abc", now)
	assert.Equal(t, "abc", post.ID)
	assert.True(t, post.Created.Equal(now))
	assert.Equal(t, time.UTC, post.Created.Location())

	post = &BlogPost{}
	Prepare(post, "ghi", now.Add(1234567*time.Nanosecond))
	assert.True(t, post.Created.Equal(now.Add(time.Millisecond)), "created %v", post.Created)

	post = &BlogPost{Created: now.Add(999 * time.Microsecond)}
	Prepare(post, "jkl", now)
	assert.True(t, post.Created.Equal(now))

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	post = &BlogPost{Created: past}
	Prepare(post, "def", now)
	assert.Equal(t, past, post.Created)
}

func TestCreatePostRequestValidate(t *testing.T) {
	valid := CreatePostRequest{
		Title:   "Bar",
		Author:  &Author{FirstName: "A", LastName: "B"},
		Content: "x",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *CreatePostRequest)
	}{
		{"missing title", func(r *CreatePostRequest) { r.Title = "" }},
		{"missing content", func(r *CreatePostRequest) { r.Content = "" }},
		{"missing author", func(r *CreatePostRequest) { r.Author = nil }},
		{"missing first name", func(r *CreatePostRequest) { r.Author = &Author{LastName: "B"} }},
		{"missing last name", func(r *CreatePostRequest) { r.Author = &Author{FirstName: "A"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Error())
		})
	}
}

func TestCreatePostRequestPost(t *testing.T) {
	created := time.Date(2019, 5, 4, 3, 2, 1, 0, time.FixedZone("y", -7200))
	req := CreatePostRequest{
		Title:   "Bar",
		Author:  &Author{FirstName: "A", LastName: "B"},
		Content: "x",
		Created: &created,
	}
	post := req.Post()
	assert.Equal(t, "Bar", post.Title)
	assert.Equal(t, "A B", post.AuthorName())
	assert.Equal(t, "x", post.Content)
	assert.True(t, post.Created.Equal(created))
	assert.Empty(t, post.ID)

	req.Created = nil
	assert.True(t, req.Post().Created.IsZero())
}

func TestUpdatePostRequestValidate(t *testing.T) {
	req := UpdatePostRequest{Title: strPtr("t")}
	require.NoError(t, req.Validate("p1"))

	req.ID = "p1"
	require.NoError(t, req.Validate("p1"))

	req.ID = "p2"
	var verr *ValidationError
	require.ErrorAs(t, req.Validate("p1"), &verr)
	assert.Contains(t, verr.Error(), "must match")

	for name, req := range map[string]UpdatePostRequest{
		"empty title":   {Title: strPtr("")},
		"empty content": {Content: strPtr("")},
	} {
		var verr *ValidationError
		require.ErrorAs(t, req.Validate("p1"), &verr, name)
	}

	req = UpdatePostRequest{Author: &Author{FirstName: "A"}}
	require.ErrorAs(t, req.Validate("p1"), &verr)
	assert.Contains(t, verr.Fields[0], "lastName")

	patch := (&UpdatePostRequest{Content: strPtr("c")}).Patch()
	assert.Nil(t, patch.Title)
	assert.Nil(t, patch.Author)
	assert.Equal(t, "c", *patch.Content)
}
