// Package ui chứa các component templ cho giao diện quản trị nhập hàng.
package ui

import (
	"context"
	"io"
	"net/url"
	"strings"

	"inbound-wms-api-server/internal/i18n"

	"github.com/a-h/templ"
)

// Page là ngữ cảnh chung của mọi trang: locale hiện tại và đường dẫn sau tiền tố locale.
type Page struct {
	Locale string
	Path   string
	Bundle *i18n.Bundle
	// Locales là các locale router chấp nhận; rỗng thì dùng i18n.SupportedLocales.
	Locales []string
	// Error hiển thị phía trên nội dung (ví dụ lỗi validate form).
	Error string
}

func (p Page) T(key string, args ...any) string {
	b := p.Bundle
	if b == nil {
		b = i18n.Default()
	}
	return b.T(p.Locale, key, args...)
}

func (p Page) locales() []string {
	if len(p.Locales) == 0 {
		return i18n.SupportedLocales
	}
	return p.Locales
}

// Href ghép locale vào một đường dẫn nội bộ.
func (p Page) Href(path string) string {
	return "/" + i18n.Normalize(p.Locale) + path
}

// NavItem là một mục trong sidebar.
type NavItem struct {
	Key  string
	Path string
}

// Menu là danh sách mục cố định của sidebar.
var Menu = []NavItem{
	{Key: "nav.inbound", Path: "/inbound"},
	{Key: "nav.activity", Path: "/activity"},
}

// ActivePath trả về Path của mục menu khớp với đường dẫn hiện tại, "" nếu không khớp.
func ActivePath(path string) string {
	for _, item := range Menu {
		if path == item.Path || strings.HasPrefix(path, item.Path+"/") {
			return item.Path
		}
	}
	return ""
}

// Sidebar hiển thị menu và bộ chọn ngôn ngữ.
func Sidebar(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		active := ActivePath(p.Path)

		h.raw(`<nav class="sidebar"><ul class="menu">`)
		for _, item := range Menu {
			class := ""
			if item.Path == active {
				class = ` class="active" aria-current="page"`
			}
			h.rawf(`<li><a href="%s"`, p.Href(item.Path))
			h.raw(class)
			h.raw(`>`)
			h.text(p.T(item.Key))
			h.raw(`</a></li>`)
		}
		h.raw(`</ul><div class="languages"><span>`)
		h.text(p.T("nav.language"))
		h.raw(`</span><ul>`)
		next := url.QueryEscape(p.Path)
		for _, code := range p.locales() {
			h.rawf(`<li><a lang="%s" href="%s?next=%s">`, code, p.Href("/lang/"+code), next)
			h.text(i18n.Label(code))
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></div></nav>`)
		return h.err
	})
}

// Layout bọc nội dung trang bằng khung HTML chung.
func Layout(p Page, title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.rawf(`<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8">`, i18n.Normalize(p.Locale))
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title + " | " + p.T("app.title"))
		h.raw(`</title>`)
		h.rawf(`<link rel="stylesheet" href="%s">`, StylesheetPath)
		h.raw(`</head><body><div class="shell">`)
		h.render(ctx, Sidebar(p))
		h.raw(`<main>`)
		if p.Error != "" {
			h.raw(`<p class="error" role="alert">`)
			h.text(p.T("error.prefix") + ": " + p.Error)
			h.raw(`</p>`)
		}
		h.render(ctx, content)
		h.raw(`</main></div></body></html>`)
		return h.err
	})
}
