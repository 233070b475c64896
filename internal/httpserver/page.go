package httpserver

import (
	"html/template"
	"path"
	"strings"
)

// The listing page: breadcrumb, the entry fragments produced by the lister,
// and a plain upload form posting back to the current directory.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>homeshare - /{{.Path}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            margin: 0;
            padding: 20px;
            background-color: #f5f5f7;
        }
        .container {
            max-width: 960px;
            margin: 0 auto;
            background: white;
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }
        .breadcrumb {
            background: #f8f9fa;
            padding: 15px 30px;
            border-bottom: 1px solid #e9ecef;
        }
        .breadcrumb a {
            color: #0066cc;
            text-decoration: none;
            margin-right: 5px;
        }
        .breadcrumb a:hover { text-decoration: underline; }
        ul.entries { list-style: none; margin: 0; padding: 0; }
        ul.entries li { border-bottom: 1px solid #f0f0f0; }
        ul.entries li:last-child { border-bottom: none; }
        ul.entries a {
            display: flex;
            align-items: center;
            padding: 10px 30px;
            color: #333;
            text-decoration: none;
        }
        ul.entries a:hover { background-color: #f8f9fa; }
        .icon::before { margin-right: 10px; }
        .icon-directory::before { content: "\1F4C1"; }
        .icon-file::before { content: "\1F4C4"; }
        .icon-directory .name { color: #0066cc; }
        .name { flex: 1; font-weight: 500; }
        .size { color: #666; font-size: 14px; min-width: 90px; text-align: right; }
        .date { color: #666; font-size: 14px; min-width: 220px; text-align: right; }
        .upload {
            background: #f8f9fa;
            padding: 15px 30px;
            border-top: 1px solid #e9ecef;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="breadcrumb">
            {{range .Breadcrumbs}}<a href="{{.URL}}">{{.Name}}</a> / {{end}}
        </div>
        <ul class="entries">{{.Listing}}</ul>
        <div class="upload">
            <form method="post" action="/{{.Path}}" enctype="multipart/form-data">
                <input type="file" name="file">
                <input type="submit" value="Upload">
            </form>
        </div>
    </div>
</body>
</html>`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type breadcrumb struct {
	Name string
	URL  string
}

type pageData struct {
	Path        string // rel, "" for the root
	Breadcrumbs []breadcrumb
	Listing     template.HTML
}

// renderPage wraps a listing body in the full page for the directory at rel.
func renderPage(rel string, listingBody string) (string, error) {
	data := pageData{
		Path:        rel,
		Breadcrumbs: breadcrumbs(rel),
		Listing:     template.HTML(listingBody),
	}
	var b strings.Builder
	if err := pageTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func breadcrumbs(rel string) []breadcrumb {
	crumbs := []breadcrumb{{Name: "Home", URL: "/"}}
	if rel == "" {
		return crumbs
	}
	current := ""
	for _, part := range strings.Split(rel, "/") {
		if part == "" {
			continue
		}
		current = path.Join(current, part)
		crumbs = append(crumbs, breadcrumb{Name: part, URL: "/" + current})
	}
	return crumbs
}
