package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sujalbistaa/secretos/internal/admin"
	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/ws"
)

const dashboardPath = "/admin/dashboard"

type dashboardData struct {
	Email         string
	Page          admin.Page
	Query         admin.Query
	AllColumns    []admin.Column
	Hidden        map[admin.Column]bool
	Notifications []admin.Notification
	Return        string
	PrevURL       string
	NextURL       string
	LoadError     bool
}

// parseQuery reads filter, sort, desc, page, size and hide parameters.
func parseQuery(values url.Values) admin.Query {
	q := admin.Query{Filter: values.Get("filter"), Desc: values.Get("desc") == "1" || values.Get("desc") == "true"}
	if col, ok := admin.ParseColumn(values.Get("sort")); ok {
		q.SortBy = col
	}
	q.Page, _ = strconv.Atoi(values.Get("page"))
	q.PageSize, _ = strconv.Atoi(values.Get("size"))
	for _, h := range values["hide"] {
		if col, ok := admin.ParseColumn(h); ok {
			q.Hidden = append(q.Hidden, col)
		}
	}
	return q
}

func pageURL(values url.Values, page int) string {
	v := url.Values{}
	for k, vs := range values {
		v[k] = append([]string(nil), vs...)
	}
	v.Set("page", strconv.Itoa(page))
	return dashboardPath + "?" + v.Encode()
}

// Dashboard handles GET /admin/dashboard. The rows are reloaded on every
// visit; filtering, sorting and paging happen over the loaded rows.
func (e *Env) Dashboard(c *gin.Context) {
	sess := sessionFrom(c)
	table := e.Tables.Table(sess)

	data := dashboardData{Email: sess.Email, AllColumns: admin.Columns, Hidden: map[admin.Column]bool{}}
	if err := table.Load(c.Request.Context()); err != nil {
		e.Log.Error("load review table", zap.Error(err))
		data.LoadError = true
	}

	values := c.Request.URL.Query()
	data.Query = parseQuery(values)
	for _, col := range data.Query.Hidden {
		data.Hidden[col] = true
	}
	data.Page = table.View(data.Query)
	data.Notifications = table.Notifications()
	data.Return = c.Request.URL.RequestURI()
	if data.Page.Page > 1 {
		data.PrevURL = pageURL(values, data.Page.Page-1)
	}
	if data.Page.Page < data.Page.PageCount {
		data.NextURL = pageURL(values, data.Page.Page+1)
	}

	status := http.StatusOK
	if data.LoadError {
		status = http.StatusInternalServerError
	}
	c.HTML(status, "dashboard.html", data)
}

// ToggleApprovalForm handles POST /admin/secrets/:id/approval.
func (e *Env) ToggleApprovalForm(c *gin.Context) {
	table, id, ok := e.tableRow(c)
	if ok {
		if approved, err := table.ToggleApproval(c.Request.Context(), id); err == nil {
			e.publish(ws.EventApproval, gin.H{"id": id, "approved": approved})
		} else {
			e.noteTableError(table, err)
		}
	}
	c.Redirect(http.StatusSeeOther, returnPath(c))
}

// DeleteSecretForm handles POST /admin/secrets/:id/delete. The form must
// carry confirm=true.
func (e *Env) DeleteSecretForm(c *gin.Context) {
	table, id, ok := e.tableRow(c)
	if ok {
		confirmed := c.PostForm("confirm") == "true"
		if err := table.Delete(c.Request.Context(), id, confirmed); err == nil {
			e.publish(ws.EventDelete, gin.H{"id": id})
		} else {
			e.noteTableError(table, err)
		}
	}
	c.Redirect(http.StatusSeeOther, returnPath(c))
}

// AdminListSecrets handles GET /api/admin/secrets.
func (e *Env) AdminListSecrets(c *gin.Context) {
	table := e.Tables.Table(sessionFrom(c))
	if err := table.Load(c.Request.Context()); err != nil {
		e.fail(c, err)
		return
	}

	page := table.View(parseQuery(c.Request.URL.Query()))
	rows := make([]gin.H, 0, len(page.Rows))
	for _, r := range page.Rows {
		row := gin.H{"pending": r.Pending}
		for _, col := range page.Columns {
			row[string(col)] = r.Value(col)
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"columns":   page.Columns,
			"rows":      rows,
			"total":     page.Total,
			"page":      page.Page,
			"pageSize":  page.PageSize,
			"pageCount": page.PageCount,
		},
		"notifications": table.Notifications(),
	})
}

// AdminToggleApproval handles PATCH /api/admin/secrets/:id.
func (e *Env) AdminToggleApproval(c *gin.Context) {
	table, id, ok := e.apiTableRow(c)
	if !ok {
		return
	}
	approved, err := table.ToggleApproval(c.Request.Context(), id)
	if err != nil {
		e.failTable(c, err, "Failed to update approval status")
		return
	}
	e.publish(ws.EventApproval, gin.H{"id": id, "approved": approved})
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": id, "approved": approved}})
}

// AdminDeleteSecret handles DELETE /api/admin/secrets/:id?confirm=true.
func (e *Env) AdminDeleteSecret(c *gin.Context) {
	table, id, ok := e.apiTableRow(c)
	if !ok {
		return
	}
	if err := table.Delete(c.Request.Context(), id, c.Query("confirm") == "true"); err != nil {
		e.failTable(c, err, "Failed to delete secret")
		return
	}
	e.publish(ws.EventDelete, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": id}})
}

// tableRow resolves the admin table and the :id parameter, loading the
// table when the row is not known yet.
func (e *Env) tableRow(c *gin.Context) (*admin.Table, uint, bool) {
	table := e.Tables.Table(sessionFrom(c))
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		table.Notify(admin.KindError, "Invalid secret ID")
		return table, 0, false
	}
	if _, ok := table.Row(uint(id)); !ok {
		if err := table.Load(c.Request.Context()); err != nil {
			e.Log.Error("load review table", zap.Error(err))
		}
	}
	return table, uint(id), true
}

func (e *Env) apiTableRow(c *gin.Context) (*admin.Table, uint, bool) {
	table, id, ok := e.tableRow(c)
	if !ok {
		table.Notifications()
		e.fail(c, fmt.Errorf("%w: Invalid secret ID", apperr.ErrBadRequest))
	}
	return table, id, ok
}

func (e *Env) noteTableError(table *admin.Table, err error) {
	switch {
	case errors.Is(err, admin.ErrPending), errors.Is(err, admin.ErrConfirmationRequired), errors.Is(err, admin.ErrUnknownRow):
		table.Notify(admin.KindError, err.Error())
	default:
		// the table already queued its own notification
		e.Log.Error("review table write", zap.Error(err))
	}
}

func (e *Env) failTable(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, admin.ErrConfirmationRequired):
		e.fail(c, fmt.Errorf("%w: %s", apperr.ErrBadRequest, err.Error()))
	case errors.Is(err, admin.ErrUnknownRow), errors.Is(err, apperr.ErrNotFound):
		e.fail(c, fmt.Errorf("%w: Secret not found", apperr.ErrNotFound))
	case errors.Is(err, admin.ErrPending):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		e.Log.Error("review table write", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
	}
}

// returnPath keeps the redirect on the dashboard.
func returnPath(c *gin.Context) string {
	ret := c.PostForm("return")
	if strings.HasPrefix(ret, dashboardPath) {
		return ret
	}
	return dashboardPath
}
