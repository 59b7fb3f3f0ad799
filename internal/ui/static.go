package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

// StylesheetPath là đường dẫn của file CSS chung, phục vụ từ StaticFiles.
const StylesheetPath = "/static/app.css"

//go:embed static
var staticFiles embed.FS

// StaticFiles trả về thư mục static đã nhúng vào binary, gắn vào router tại /static.
func StaticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
