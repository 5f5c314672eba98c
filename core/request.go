package core

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type (
	CreatePostRequest struct {
		Title   string     `json:"title" validate:"required"`
		Author  *Author    `json:"author" validate:"required"`
		Content string     `json:"content" validate:"required"`
		Created *time.Time `json:"created"`
	}

	UpdatePostRequest struct {
		ID      string  `json:"id"`
		Title   *string `json:"title" validate:"omitempty,min=1"`
		Content *string `json:"content" validate:"omitempty,min=1"`
		Author  *Author `json:"author"`
	}
)

func (req *CreatePostRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return validationErrorFrom(err)
	}
	return nil
}

func (req *CreatePostRequest) Post() *BlogPost {
	post := &BlogPost{
		Title:   req.Title,
		Content: req.Content,
	}
	if req.Author != nil {
		post.Author = *req.Author
	}
	if req.Created != nil {
		post.Created = req.Created.UTC()
	}
	return post
}

// Validate checks the supplied fields. pathID is the id the request was routed to; a body id,
// when present, has to match it.
func (req *UpdatePostRequest) Validate(pathID string) error {
	if req.ID != "" && req.ID != pathID {
		return NewValidationError("request path id (" + pathID + ") and request body id (" + req.ID + ") must match")
	}
	if err := validate.Struct(req); err != nil {
		return validationErrorFrom(err)
	}
	return nil
}

func (req *UpdatePostRequest) Patch() *PostPatch {
	return &PostPatch{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}
}
