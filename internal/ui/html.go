package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter ghi HTML và giữ lỗi ghi đầu tiên, tương tự cách code sinh bởi templ xử lý lỗi.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text ghi nội dung đã escape.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// rawf chỉ dùng cho chuỗi định dạng tĩnh; các tham số đều được escape.
func (h *htmlWriter) rawf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = templ.EscapeString(fmt.Sprint(a))
	}
	h.raw(fmt.Sprintf(format, escaped...))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
