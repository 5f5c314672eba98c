package posts

import (
	"errors"
	"net/http"
	"time"

	"blog-api/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	// PostResponse is the public shape of a post. Author is flattened to a display name.
	PostResponse struct {
		ID      string    `json:"id"`
		Title   string    `json:"title"`
		Author  string    `json:"author"`
		Content string    `json:"content"`
		Created time.Time `json:"created"`
	}

	ErrResponse struct {
		HTTPStatusCode int    `json:"-"`
		StatusText     string `json:"status"`
		ErrorText      string `json:"error,omitempty"`
	}
)

func NewPostResponse(post *core.BlogPost) *PostResponse {
	return &PostResponse{
		ID:      post.ID,
		Title:   post.Title,
		Author:  post.AuthorName(),
		Content: post.Content,
		Created: post.Created,
	}
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

// errStore maps a store error onto a response; anything but a missing post is a 500.
func errStore(r *http.Request, err error) render.Renderer {
	if errors.Is(err, core.ErrNotFound) {
		return &ErrResponse{
			HTTPStatusCode: http.StatusNotFound,
			StatusText:     "Resource not found.",
		}
	}
	logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"error":  err,
	}).Error("Store request failed")
	return &ErrResponse{
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

// Routes serves the post resource; mount it under /posts.
func Routes(store core.PostStore) chi.Router {
	r := chi.NewRouter()
	r.Get("/", HandleList(store))
	r.Post("/", HandleCreate(store))
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", HandleGet(store))
		r.Put("/", HandleUpdate(store))
		r.Delete("/", HandleDelete(store))
	})
	return r
}

func HandleList(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := store.FindAll(r.Context())
		if err != nil {
			render.Render(w, r, errStore(r, err))
			return
		}
		list := make([]*PostResponse, 0, len(posts))
		for _, post := range posts {
			list = append(list, NewPostResponse(post))
		}
		render.JSON(w, r, list)
	}
}

func HandleGet(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		post, err := store.FindID(r.Context(), id)
		if err != nil {
			render.Render(w, r, errStore(r, err))
			return
		}
		render.JSON(w, r, NewPostResponse(post))
	}
}

func HandleCreate(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := &core.CreatePostRequest{}
		// Clients do not always send a JSON content type, so decode JSON regardless.
		if err := render.DecodeJSON(r.Body, data); err != nil {
			render.Render(w, r, errInvalidRequest(err))
			return
		}
		if err := data.Validate(); err != nil {
			logrus.WithField("error", err).Warn("Rejected post")
			render.Render(w, r, errInvalidRequest(err))
			return
		}

		post := data.Post()
		if _, err := store.Create(r.Context(), post); err != nil {
			render.Render(w, r, errStore(r, err))
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, NewPostResponse(post))
	}
}

// HandleUpdate answers 201 on success, which existing clients check for.
func HandleUpdate(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		data := &core.UpdatePostRequest{}
		if err := render.DecodeJSON(r.Body, data); err != nil {
			render.Render(w, r, errInvalidRequest(err))
			return
		}
		if err := data.Validate(id); err != nil {
			logrus.WithFields(logrus.Fields{
				"post_id": id,
				"error":   err,
			}).Warn("Rejected post update")
			render.Render(w, r, errInvalidRequest(err))
			return
		}

		post, err := store.Update(r.Context(), id, data.Patch())
		if err != nil {
			render.Render(w, r, errStore(r, err))
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, NewPostResponse(post))
	}
}

func HandleDelete(store core.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), id); err != nil {
			render.Render(w, r, errStore(r, err))
			return
		}
		render.NoContent(w, r)
	}
}
