package reports

// Page templates are embedded as string constants so the service has no
// runtime file dependencies regardless of working directory.

const pageStyle = `
    body { font-family: Georgia, serif; margin: 0; background: #0b0e1a; color: #d8dce8; }
    .page { max-width: 860px; margin: 0 auto; padding: 30px 20px; }
    h1 { color: #f0f2f8; border-bottom: 1px solid #2a3050; padding-bottom: 10px; }
    h2 { color: #aab4d4; }
    table { border-collapse: collapse; margin: 15px 0; }
    th, td { border: 1px solid #2a3050; padding: 8px 14px; text-align: left; }
    th { background: #141a30; }
    code { background: #141a30; padding: 2px 6px; border-radius: 3px; font-size: 0.95em; }
    a { color: #7fa8ff; text-decoration: none; }
    a:hover { text-decoration: underline; }
    img.cutout { max-width: 100%; border: 1px solid #2a3050; border-radius: 4px; margin-top: 10px; }
    ul.gallery { list-style: none; padding: 0; }
    ul.gallery li { margin: 8px 0; }
    .footer { margin-top: 40px; color: #5a6288; font-size: 0.85em; border-top: 1px solid #2a3050; padding-top: 10px; }
`

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}} - Sky Cutout</title>
    <style>` + pageStyle + `</style>
</head>
<body>
    <div class="page">
        {{.Content}}
        <div class="footer">Generated {{.GeneratedAt}} | skycutout v{{.Version}}</div>
    </div>
</body>
</html>
`

const galleryTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>` + pageStyle + `</style>
</head>
<body>
    <div class="page">
        <h1>{{.Title}}</h1>
        {{if .Gallery}}
        <ul class="gallery">
            {{range .Gallery}}<li><a href="{{.URL}}">{{.Label}}</a></li>
            {{end}}
        </ul>
        {{else}}
        <p>No cutouts stored yet. Fetch one with <code>GET /cutout?name=...</code></p>
        {{end}}
        <div class="footer">Generated {{.GeneratedAt}} | skycutout v{{.Version}}</div>
    </div>
</body>
</html>
`
