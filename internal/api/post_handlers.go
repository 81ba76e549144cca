package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"blog-serwer/internal/blog"

	"github.com/go-chi/chi/v5"
)

// multipartOverhead is the allowance for multipart boundaries and headers on
// top of the post size limit.
const multipartOverhead = 64 << 10

type UsersResponse struct {
	Users []string `json:"users" example:"alice,bob"`
}

type PostLink struct {
	Filename string `json:"filename" example:"note.txt"`
	Name     string `json:"name" example:"note"`
	Link     string `json:"link" example:"/api/v1/blog/alice/note"`
}

type BlogResponse struct {
	User  string     `json:"user" example:"alice"`
	Posts []PostLink `json:"posts"`
}

type PostResponse struct {
	ID        int64     `json:"id" example:"42"`
	Username  string    `json:"username" example:"alice"`
	Filename  string    `json:"filename" example:"note.txt"`
	Link      string    `json:"link" example:"/api/v1/blog/alice/note"`
	CreatedAt time.Time `json:"created_at"`
}

func postLink(username, filename string) string {
	return "/api/v1/blog/" + url.PathEscape(username) + "/" + url.PathEscape(blog.PostName(filename))
}

// @Summary      List bloggers
// @Description  Returns the usernames of every registered user.
// @Tags         blog
// @Produce      json
// @Success      200  {object}  UsersResponse
// @Failure      503  {string}  string "Service Unavailable"
// @Router       /users [get]
func (s *Server) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.blog.ListBloggers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// @Summary      List a user's posts
// @Description  Returns every post of the user with a link to read it.
// @Tags         blog
// @Produce      json
// @Param        username  path      string  true  "Blogger"
// @Success      200       {object}  BlogResponse
// @Failure      404       {string}  string "User not found"
// @Failure      503       {string}  string "Service Unavailable"
// @Router       /blog/{username} [get]
func (s *Server) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	posts, err := s.blog.ListPosts(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := BlogResponse{User: username, Posts: []PostLink{}}
	for filename, err := range posts {
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Posts = append(resp.Posts, PostLink{
			Filename: filename,
			Name:     blog.PostName(filename),
			Link:     postLink(username, filename),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// @Summary      Read a post
// @Description  Returns the post text. The extension may be omitted from the post name.
// @Tags         blog
// @Produce      plain
// @Param        username  path      string  true  "Blogger"
// @Param        postname  path      string  true  "Post name, with or without .txt"
// @Success      200       {string}  string "Post text"
// @Failure      404       {string}  string "User or post not found"
// @Failure      503       {string}  string "Service Unavailable"
// @Router       /blog/{username}/{postname} [get]
func (s *Server) ViewPostHandler(w http.ResponseWriter, r *http.Request) {
	text, err := s.blog.RetrievePost(r.Context(), chi.URLParam(r, "username"), chi.URLParam(r, "postname"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}

// @Summary      Download a post
// @Description  Returns the post text as a file attachment.
// @Tags         blog
// @Produce      plain
// @Param        username  path      string  true  "Blogger"
// @Param        postname  path      string  true  "Post name, with or without .txt"
// @Success      200       {file}    file
// @Failure      404       {string}  string "User or post not found"
// @Failure      503       {string}  string "Service Unavailable"
// @Router       /download/{username}/{postname} [get]
func (s *Server) DownloadPostHandler(w http.ResponseWriter, r *http.Request) {
	postname := chi.URLParam(r, "postname")

	text, err := s.blog.RetrievePost(r.Context(), chi.URLParam(r, "username"), postname)
	if err != nil {
		writeError(w, r, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": blog.PostFilename(postname)})
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}

// @Summary      Upload a post
// @Description  Publishes a .txt file as a post of the authenticated user. Names are unique per user and existing posts are never overwritten.
// @Tags         blog
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Post file (.txt)"
// @Success      201   {object}  PostResponse
// @Failure      400   {string}  string "Invalid file"
// @Failure      401   {string}  string "Unauthorized"
// @Failure      409   {string}  string "Post already exists"
// @Failure      413   {string}  string "Post too large"
// @Failure      503   {string}  string "Service Unavailable"
// @Router       /posts [post]
func (s *Server) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	maxSize := s.blog.MaxPostSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Post too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file part in the request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the workflow to reject it.
	content, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		http.Error(w, "Error reading the file", http.StatusBadRequest)
		return
	}

	post, err := s.blog.CreatePost(r.Context(), id, header.Filename, content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, PostResponse{
		ID:        post.ID,
		Username:  id.Username,
		Filename:  post.Filename,
		Link:      postLink(id.Username, post.Filename),
		CreatedAt: post.CreatedAt,
	})
}
