package middleware

import (
	"net/http"
	"strings"

	"inbound-wms-api-server/internal/i18n"

	"github.com/gin-gonic/gin"
)

const (
	LocaleCookieName = "NEXT_LOCALE"
	// Key lưu locale hiện tại trong gin.Context
	LocaleContextKey = "locale"

	StaticPrefix = "/static"
	APIPrefix    = "/api"
)

// LocaleRouter quyết định một đường dẫn được đi tiếp hay phải chuyển hướng sang bản có tiền tố locale.
type LocaleRouter struct {
	Supported     []string
	DefaultLocale string
	CookieName    string
	// Các tiền tố được bỏ qua (asset tĩnh, API, health check)
	PassthroughPrefixes []string
}

func NewLocaleRouter(supported []string, defaultLocale, cookieName string) *LocaleRouter {
	if len(supported) == 0 {
		supported = i18n.SupportedLocales
	}
	if defaultLocale == "" {
		defaultLocale = i18n.DefaultLocale
	}
	if cookieName == "" {
		cookieName = LocaleCookieName
	}
	return &LocaleRouter{
		Supported:           supported,
		DefaultLocale:       defaultLocale,
		CookieName:          cookieName,
		PassthroughPrefixes: []string{StaticPrefix, APIPrefix, "/healthz"},
	}
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (lr *LocaleRouter) isSupported(code string) bool {
	for _, s := range lr.Supported {
		if s == code {
			return true
		}
	}
	return false
}

// PathLocale trả về locale ở segment đầu tiên của path nếu khớp chính xác.
func (lr *LocaleRouter) PathLocale(path string) (string, bool) {
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	if lr.isSupported(segment) {
		return segment, true
	}
	return "", false
}

// Resolve trả về đường dẫn cần chuyển hướng tới, hoặc "" nếu request được đi tiếp.
func (lr *LocaleRouter) Resolve(path, cookieLocale string) string {
	return lr.resolve(path, path, cookieLocale)
}

// resolve quyết định dựa trên path đã decode, nhưng dựng đích từ escapedPath
// để các ký tự như %3F, %2F, %25 giữ nguyên trong URL chuyển hướng.
func (lr *LocaleRouter) resolve(path, escapedPath, cookieLocale string) string {
	for _, prefix := range lr.PassthroughPrefixes {
		if hasSegmentPrefix(path, prefix) {
			return ""
		}
	}
	// File tĩnh (favicon.ico, robots.txt, ...)
	if strings.Contains(path, ".") {
		return ""
	}
	if _, ok := lr.PathLocale(path); ok {
		return ""
	}

	locale := lr.DefaultLocale
	if lr.isSupported(cookieLocale) {
		locale = cookieLocale
	}
	if path == "" || path == "/" {
		return "/" + locale
	}
	if !strings.HasPrefix(escapedPath, "/") {
		escapedPath = "/" + escapedPath
	}
	return "/" + locale + escapedPath
}

// Middleware gắn LocaleRouter vào gin. Nên đăng ký bằng engine.Use để chạy cả với route không khớp.
func (lr *LocaleRouter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		cookieLocale, _ := c.Cookie(lr.CookieName)

		if target := lr.resolve(path, c.Request.URL.EscapedPath(), cookieLocale); target != "" {
			if raw := c.Request.URL.RawQuery; raw != "" {
				target += "?" + raw
			}
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}

		if locale, ok := lr.PathLocale(path); ok {
			c.Set(LocaleContextKey, locale)
		}
		c.Next()
	}
}

// LocaleFromContext đọc locale đã được middleware gắn vào, mặc định là tiếng Hàn.
func LocaleFromContext(c *gin.Context) string {
	return i18n.Normalize(c.GetString(LocaleContextKey))
}

// RequireLocale trả về 404 nếu tham số :locale của route không phải locale được hỗ trợ.
// Cần thiết vì gin có thể khớp /api/... chưa đăng ký vào nhóm /:locale.
func (lr *LocaleRouter) RequireLocale() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !lr.isSupported(c.Param("locale")) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "route not found"})
			return
		}
		c.Next()
	}
}
