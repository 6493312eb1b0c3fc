package server

import (
	"html/template"
	"net/http"
)

type page struct {
	Title    string
	Message  string
	Error    string
	Redirect string
	Close    bool
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        h1.failed { color: #d93025; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1{{if .Error}} class="failed"{{end}}>{{.Title}}</h1>
        {{if .Error}}<p>Error: {{.Error}}</p>{{else}}<p>{{.Message}}</p>{{end}}
    </div>
    {{if .Redirect}}<script>window.location.href = {{.Redirect}};</script>{{end}}
    {{if .Close}}<script>setTimeout(() => window.close(), 3000);</script>{{end}}
</body>
</html>
`))

func writePage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, p)
}

func authFailedPage(msg string) page {
	return page{Title: "Spotify Authorization Failed", Error: msg, Close: true}
}

func exchangeFailedPage(msg string) page {
	return page{Title: "Token Exchange Failed", Error: msg, Close: true}
}

func connectedPage() page {
	return page{Title: "Spotify Connected!", Message: "Loading your music library...", Redirect: "/?spotify=connected"}
}

func closeWindowPage() page {
	return page{Title: "✓ Authorization Successful", Message: "You can close this window and return to the terminal."}
}
