// server/internal/api/handlers/ui_handler.go
package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"inbound-wms-api-server/internal/api/middleware"
	"inbound-wms-api-server/internal/i18n"
	"inbound-wms-api-server/internal/ui"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// localeCookieMaxAge: một năm, giống cookie NEXT_LOCALE của giao diện cũ.
const localeCookieMaxAge = 365 * 24 * 60 * 60

// UIHandler phục vụ giao diện quản trị có tiền tố locale (/ko, /en, /vi).
type UIHandler struct {
	Service    *InboundService
	Bundle     *i18n.Bundle
	CookieName string
	// Locales trùng với danh sách của LocaleRouter.
	Locales []string
}

func (h *UIHandler) supports(code string) bool {
	if len(h.Locales) == 0 {
		return i18n.IsSupported(code)
	}
	for _, l := range h.Locales {
		if l == code {
			return true
		}
	}
	return false
}

func (h *UIHandler) page(c *gin.Context) ui.Page {
	locale := middleware.LocaleFromContext(c)
	path := strings.TrimPrefix(c.Request.URL.Path, "/"+locale)
	if path == "" {
		path = "/"
	}
	return ui.Page{Locale: locale, Path: path, Bundle: h.Bundle, Locales: h.Locales}
}

func (h *UIHandler) render(c *gin.Context, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(c.Request.Context(), &buf); err != nil {
		h.Service.logger().Error("Failed to render page", zap.Error(err))
		c.String(http.StatusInternalServerError, "render error: %v", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *UIHandler) redirectToList(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/"+middleware.LocaleFromContext(c)+"/inbound")
}

// Home chuyển /:locale sang trang danh sách.
func (h *UIHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/"+middleware.LocaleFromContext(c)+"/inbound")
}

func (h *UIHandler) showInbound(c *gin.Context, status int, p ui.Page, form ui.FormValues) {
	requests, err := h.Service.Repo.GetAll(c.Request.Context())
	if err != nil {
		p.Error = err.Error()
		status = statusForError(err)
	}
	h.render(c, status, ui.InboundPage(p, requests, form))
}

// ListInbound hiển thị danh sách và form tạo mới.
func (h *UIHandler) ListInbound(c *gin.Context) {
	h.showInbound(c, http.StatusOK, h.page(c), ui.FormValues{})
}

// CreateInbound nhận form, validate giống API JSON rồi redirect (303) về danh sách.
func (h *UIHandler) CreateInbound(c *gin.Context) {
	form := ui.FormValues{
		PONumber:     c.PostForm("poNumber"),
		SupplierName: c.PostForm("supplierName"),
		RequestDate:  c.PostForm("requestDate"),
		ExpectedDate: c.PostForm("expectedDate"),
		Memo:         c.PostForm("memo"),
	}
	req := CreateInboundRequest{
		PONumber:     form.PONumber,
		SupplierName: form.SupplierName,
		RequestDate:  form.RequestDate,
		ExpectedDate: form.ExpectedDate,
		Memo:         form.Memo,
	}

	skus := c.PostFormArray("skuCode")
	names := c.PostFormArray("productName")
	quantities := c.PostFormArray("quantity")
	units := c.PostFormArray("unit")
	p := h.page(c)
	for i := range skus {
		it := ui.ItemValues{
			SKUCode:     skus[i],
			ProductName: valueAt(names, i),
			Quantity:    valueAt(quantities, i),
			Unit:        valueAt(units, i),
		}
		// Dòng trống hoàn toàn được bỏ qua.
		if strings.TrimSpace(it.SKUCode+it.ProductName+it.Quantity) == "" {
			continue
		}
		form.Items = append(form.Items, it)
		qty, err := strconv.Atoi(strings.TrimSpace(it.Quantity))
		if err != nil {
			p.Error = "quantity must be a whole number"
			h.showInbound(c, http.StatusBadRequest, p, form)
			return
		}
		req.Items = append(req.Items, LineItemRequest{
			SKUCode:     it.SKUCode,
			ProductName: it.ProductName,
			Quantity:    qty,
			Unit:        it.Unit,
		})
	}

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		p.Error = err.Error()
		h.showInbound(c, http.StatusBadRequest, p, form)
		return
	}
	if _, err := h.Service.Create(c.Request.Context(), req); err != nil {
		p.Error = err.Error()
		h.showInbound(c, statusForError(err), p, form)
		return
	}
	h.redirectToList(c)
}

// ChangeStatus là bản form của PATCH /api/inbound-status/:id.
func (h *UIHandler) ChangeStatus(c *gin.Context) {
	_, err := h.Service.ChangeStatus(c.Request.Context(), c.Param("id"), c.PostForm("status"), c.PostForm("reason"))
	if err != nil {
		p := h.page(c)
		p.Error = err.Error()
		h.showInbound(c, statusForError(err), p, ui.FormValues{})
		return
	}
	h.redirectToList(c)
}

// DeleteInbound là bản form của DELETE /api/inbound-status/:id.
func (h *UIHandler) DeleteInbound(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		p := h.page(c)
		p.Error = err.Error()
		h.showInbound(c, statusForError(err), p, ui.FormValues{})
		return
	}
	h.redirectToList(c)
}

// Activity hiển thị mọi sự kiện đổi trạng thái, mới nhất trước.
func (h *UIHandler) Activity(c *gin.Context) {
	p := h.page(c)
	status := http.StatusOK
	requests, err := h.Service.Repo.GetAll(c.Request.Context())
	if err != nil {
		p.Error = err.Error()
		status = statusForError(err)
	}
	h.render(c, status, ui.ActivityPage(p, ui.BuildActivity(requests)))
}

// SwitchLanguage ghi cookie locale rồi chuyển về cùng trang dưới locale mới.
func (h *UIHandler) SwitchLanguage(c *gin.Context) {
	code := c.Param("code")
	if !h.supports(code) {
		code = middleware.LocaleFromContext(c)
	}
	cookieName := h.CookieName
	if cookieName == "" {
		cookieName = middleware.LocaleCookieName
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, code, localeCookieMaxAge, "/", "", false, false)

	c.Redirect(http.StatusSeeOther, "/"+code+safeNextPath(c.Query("next")))
}

// safeNextPath chỉ chấp nhận đường dẫn nội bộ; mặc định là trang danh sách.
func safeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/inbound"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/inbound"
	}
	if next == "/" {
		return "/inbound"
	}
	return next
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
