package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/models"
	"github.com/sujalbistaa/secretos/internal/selector"
	"github.com/sujalbistaa/secretos/internal/service"
	"github.com/sujalbistaa/secretos/internal/ws"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{"cell": cell}).ParseFS(templateFS, "templates/*.html"))
}

// cell renders a review table value.
func cell(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Local().Format("2006-01-02 15:04")
	case bool:
		if x {
			return "si"
		}
		return "no"
	}
	return fmt.Sprint(v)
}

type formData struct {
	DepartmentHidden bool
	Departments      []string
	Localities       []string
	Schools          []models.School
	Department       string
	Locality         string
	SchoolID         uint
	Title            string
	Content          string
	Notification     *selector.Notification
}

func newFormData(c *selector.Cascade, title, content string) formData {
	dep, loc, id := c.Selected()
	return formData{
		DepartmentHidden: c.DepartmentHidden(),
		Departments:      c.Departments(),
		Localities:       c.Localities(),
		Schools:          c.Names(),
		Department:       dep,
		Locality:         loc,
		SchoolID:         id,
		Title:            title,
		Content:          content,
	}
}

// cascadeFrom rebuilds the selector from departamento, localidad and
// escuela values.
func (e *Env) cascadeFrom(c *gin.Context, get func(string) string) (*selector.Cascade, error) {
	schools, err := e.Posts.Schools(c.Request.Context())
	if err != nil {
		return nil, err
	}
	cascade := selector.New(schools, e.Settings.AllowedDepartments)
	schoolID, _ := strconv.ParseUint(get("escuela"), 10, 64)
	cascade.Apply(get("departamento"), get("localidad"), uint(schoolID))
	return cascade, nil
}

// SubmitPage handles GET /, the public submission form.
func (e *Env) SubmitPage(c *gin.Context) {
	cascade, err := e.cascadeFrom(c, c.Query)
	if err != nil {
		e.Log.Error("load schools", zap.Error(err))
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	c.HTML(http.StatusOK, "form.html", newFormData(cascade, c.Query("titulo"), c.Query("content")))
}

// Submit handles POST /submit. It validates like the browser form does and
// creates the post through the same service as /api/create-post.
func (e *Env) Submit(c *gin.Context) {
	cascade, err := e.cascadeFrom(c, c.PostForm)
	if err != nil {
		e.Log.Error("load schools", zap.Error(err))
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	title, content := c.PostForm("titulo"), c.PostForm("content")
	data := newFormData(cascade, title, content)
	form := selector.Form{Cascade: cascade, Title: title, Content: content}
	if n := form.Validate(); n != nil {
		data.Notification = n
		c.HTML(http.StatusBadRequest, "form.html", data)
		return
	}

	_, _, schoolID := cascade.Selected()
	secret, err := e.Posts.Create(c.Request.Context(), service.CreatePostInput{
		Content:  content,
		SchoolID: service.FlexID(strconv.FormatUint(uint64(schoolID), 10)),
		Title:    title,
	})
	if err != nil {
		status := apperr.Status(err)
		if status >= http.StatusInternalServerError {
			e.Log.Error("create post from form", zap.Error(err))
		}
		data.Notification = &selector.Notification{Title: "No se pudo crear el post", Description: apperr.Message(err)}
		c.HTML(status, "form.html", data)
		return
	}
	e.publish(ws.EventNewPost, secret)

	fresh, err := e.cascadeFrom(c, func(string) string { return "" })
	if err != nil {
		fresh = cascade
	}
	data = newFormData(fresh, "", "")
	data.Notification = &selector.Notification{Title: "Post creado", Description: "Tu post fue creado correctamente."}
	c.HTML(http.StatusOK, "form.html", data)
}

// SchoolOptions handles GET /api/schools/options.
func (e *Env) SchoolOptions(c *gin.Context) {
	cascade, err := e.cascadeFrom(c, c.Query)
	if err != nil {
		e.fail(c, err)
		return
	}
	dep, loc, id := cascade.Selected()
	names := cascade.Names()
	if names == nil {
		names = []models.School{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"departmentHidden": cascade.DepartmentHidden(),
			"departments":      nonNil(cascade.Departments()),
			"localities":       nonNil(cascade.Localities()),
			"schools":          names,
			"selected": gin.H{
				"departamento": dep,
				"localidad":    loc,
				"escuela":      id,
			},
		},
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
