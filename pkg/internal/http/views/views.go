package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts/*.html polls/*.html error.html
var files embed.FS

func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
