package server

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/CyberJohn04/myfotobooth/internal/filter"
	"github.com/CyberJohn04/myfotobooth/internal/sticker"
)

type loginData struct {
	Caption string
}

type styleOption struct {
	Key        string
	Name       string
	NeedsColor bool
	Fill       string
}

type boothData struct {
	Caption   string
	User      string
	Countdown int
	Filters   []filter.Filter
	Styles    []styleOption
	Themes    []sticker.Theme
	Live      bool
	NoGate    bool
	CSS       template.CSS
}

// boothCSS prefixes the stylesheet with the style variables so var()
// references in filter transforms resolve in the browser exactly like they
// do in the compositor.
func boothCSS(env filter.StyleEnv) template.CSS {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s:%s;", k, env[k])
	}
	b.WriteString("}\n")
	b.WriteString(baseCSS)
	return template.CSS(b.String())
}

const baseCSS = `*{box-sizing:border-box}
body{margin:0;font-family:'Avenir Next','Segoe UI',sans-serif;background:#120c22;color:#efeaff}
header{display:flex;justify-content:space-between;align-items:center;padding:14px 24px;background:#1b1035}
header h1{margin:0;font-size:22px;letter-spacing:1px}
.logout{display:flex;gap:10px;align-items:center;margin:0}
main{display:grid;grid-template-columns:3fr 2fr;gap:24px;padding:24px;max-width:1100px;margin:0 auto}
.viewfinder{position:relative;background:#000;border-radius:10px;overflow:hidden}
#live{display:block;width:100%}
.overlay{position:absolute;inset:0;display:flex;align-items:center;justify-content:center;font-size:72px;font-weight:700;background:rgba(10,5,25,.45);text-shadow:0 2px 14px #000}
.hidden{display:none}
.filters{display:flex;flex-wrap:wrap;gap:8px;margin:14px 0}
button{font:inherit;border:0;border-radius:8px;padding:8px 14px;background:#2d2250;color:#efeaff;cursor:pointer}
button:disabled{opacity:.45;cursor:default}
.filter-btn.selected{background:#7a5cff}
.big{width:100%;padding:14px;font-size:18px;background:#7a5cff}
.warn{color:#ffb86e}
.controls{display:flex;flex-direction:column;gap:14px}
label{display:flex;flex-direction:column;gap:6px;font-size:14px}
select,input[type=color]{font:inherit;padding:6px;border-radius:6px;border:1px solid #3a2f63;background:#1b1035;color:#efeaff}
input[type=color]{height:42px;padding:2px}
.preview{min-height:120px}
.pv-empty{color:#9a8fc0}
.pv-strip{width:280px;margin:0 auto;padding:26px 20px 20px;border-radius:6px;box-shadow:0 8px 30px rgba(0,0,0,.5)}
.pv-caption{text-align:center;font-weight:700;font-size:18px;margin-bottom:12px;color:#fff;text-shadow:0 1px 3px rgba(0,0,0,.6)}
.pv-photo{position:relative;margin:0 0 12px;overflow:hidden}
.pv-shot{display:block;width:100%}
.pv-sticker{position:absolute;width:34px;height:34px;pointer-events:none}
.pv-label{text-align:center;font-style:italic;font-size:13px;color:#fff;text-shadow:0 1px 3px rgba(0,0,0,.6)}
.actions{display:flex;gap:10px}
.actions button{flex:1;background:#2fbf71}
.actions #print{background:#2d2250}
.card{max-width:380px;margin:15vh auto;padding:32px;background:#1b1035;border-radius:12px;text-align:center}
.card h1{margin-top:0}
.card form{display:flex;flex-direction:column;gap:12px;margin-top:18px}
.card input{font:inherit;padding:10px;border-radius:8px;border:1px solid #3a2f63;background:#120c22;color:#efeaff}
.card button{background:#7a5cff;padding:12px}`

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Caption}} login</title>
<style>` + baseCSS + `</style>
</head>
<body>
<main class="card">
<h1>{{.Caption}}</h1>
<p>Sign in to start the booth.</p>
<form method="post" action="/login">
<input name="name" placeholder="Your name" autofocus required>
<button type="submit">Start</button>
</form>
</main>
</body>
</html>
`))

var boothTmpl = template.Must(template.New("booth").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Caption}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<header>
<h1>{{.Caption}}</h1>
{{if not .NoGate}}<form class="logout" method="post" action="/logout"><span>{{.User}}</span><button type="submit">Log out</button></form>{{end}}
</header>
<main>
<section class="stage">
<div class="viewfinder">
<img id="live" src="/stream" alt="camera">
<div id="overlay" class="overlay hidden"></div>
</div>
<div class="filters">
{{range .Filters}}<button class="filter-btn{{if eq .Key "none"}} selected{{end}}" data-key="{{.Key}}" data-transform="{{.Transform}}">{{.Name}}</button>
{{end}}</div>
<button id="capture" class="big"{{if not .Live}} disabled{{end}}>Start {{.Countdown}}s countdown</button>
{{if not .Live}}<p class="warn">Camera is offline. Start with --device none for a synthetic feed.</p>{{end}}
</section>
<section class="controls">
<label>Strip style
<select id="style">
{{range .Styles}}<option value="{{.Key}}" data-needs-color="{{.NeedsColor}}" data-fill="{{.Fill}}">{{.Name}}</option>
{{end}}</select>
</label>
<label id="color-wrap" class="hidden">Background color
<input type="color" id="color" value="#e0f7fa">
</label>
<label>Stickers
<select id="theme">
{{range .Themes}}<option value="{{.Key}}">{{.Name}}</option>
{{end}}</select>
</label>
<div id="preview" class="preview"><p class="pv-empty">Capture a sequence to see the strip.</p></div>
<div class="actions">
<button id="compose" disabled>Download strip</button>
<button id="print" disabled>Print</button>
</div>
</section>
</main>
<script src="/booth.js"></script>
</body>
</html>
`))

var previewTmpl = template.Must(template.New("preview").Parse(`<div class="pv-strip" style="{{.Background}}">
<div class="pv-caption">{{.Caption}}</div>
{{range .Photos}}<div class="pv-photo">
<img class="pv-shot" src="/snapshots/{{.Index}}" style="{{.Style}}">
{{range .Stickers}}<img class="pv-sticker" src="{{$.StickerURL}}" style="{{.Style}}">
{{end}}</div>
{{end}}<div class="pv-label">{{.Label}}</div>
</div>
`))
