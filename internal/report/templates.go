package report

// reportTemplate is the single-page report. Tab and fold markers rendered
// here reflect the viewstate controller; the embedded script keeps them in
// sync after load.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>{{.Styles}}</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated {{.GeneratedAt}} &middot; {{.Data.SpecInfo.Title}} {{.Data.SpecInfo.Version}}{{if .Data.SpecInfo.BaseURL}} &middot; {{.Data.SpecInfo.BaseURL}}{{end}}</p>
</header>

<nav class="tabs">
{{range .Tabs}}  <button class="tab{{if .Active}} active{{end}}" data-tab="{{.ID}}" onclick="selectTab(this, '{{.ID}}')">{{.Label}}</button>
{{end}}</nav>

<section id="summary" class="tab-content{{if (index .Tabs 0).Active}} active{{end}}">
  <div class="cards">
    <div class="card"><span class="num">{{.Data.Summary.Total}}</span><span>endpoints</span></div>
    <div class="card pass"><span class="num">{{.Data.Summary.Passed}}</span><span>passed</span></div>
    <div class="card fail"><span class="num">{{.Data.Summary.Failed}}</span><span>failed</span></div>
    <div class="card"><span class="num">{{printf "%.1f" .Data.Summary.SuccessRate}}%</span><span>success rate</span></div>
    <div class="card"><span class="num">{{printf "%.0f" .Data.Summary.AvgResponseMs}} ms</span><span>avg response</span></div>
  </div>
</section>

<section id="passed" class="tab-content{{if (index .Tabs 1).Active}} active{{end}}">
{{template "results" .Passed}}
</section>

<section id="failed" class="tab-content{{if (index .Tabs 2).Active}} active{{end}}">
{{template "results" .Failed}}
</section>

<script>{{.Script}}</script>
</body>
</html>

{{define "results"}}{{if not .}}<p class="empty">No endpoints in this category.</p>{{end}}
{{range .}}<div class="result">
  <button class="collapsible{{if .Expanded}} active{{end}}" data-target="{{.ID}}">
    <span class="method {{.Method}}">{{.Method}}</span>
    <span class="path">{{.Path}}</span>
    {{if .StatusLine}}<span class="status">{{.StatusLine}}</span>{{end}}
    <span class="badge {{if .Success}}pass{{else}}fail{{end}}">{{if .Success}}PASS{{else}}FAIL{{end}}</span>
    <span class="duration">{{.DurationMs}} ms</span>
  </button>
  <div id="{{.ID}}" class="content{{if .Expanded}} shown{{end}}">
    {{if .Summary}}<p class="summary">{{.Summary}}</p>{{end}}
    {{if .Description}}<div class="description">{{.Description}}</div>{{end}}
    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
    {{range .Result.Validations}}
    <div class="validation">
      <h4>{{.Name}} {{if .Valid}}&#10003;{{else}}&#10007;{{end}}</h4>
      {{if .Message}}<p>{{.Message}}</p>{{end}}
      {{range .Errors}}<p class="issue error">{{.Message}}{{if .Path}} <code>{{.Path}}</code>{{end}}</p>{{end}}
      {{range .Warnings}}<p class="issue warning">{{.Message}}{{if .Path}} <code>{{.Path}}</code>{{end}}</p>{{end}}
    </div>
    {{end}}
    {{if .Result.Request}}
    <div class="exchange">
      <h4>Request</h4>
      <pre>{{.Result.Request.Method}} {{.Result.Request.URL}}{{if .Result.Request.Body}}

{{.Result.Request.Body}}{{end}}</pre>
    </div>
    {{end}}
    {{if .Result.Response}}
    <div class="exchange">
      <h4>Response ({{.Result.Response.BodySize}} bytes)</h4>
      {{if .Result.Response.Body}}<pre>{{.Result.Response.Body}}</pre>{{end}}
    </div>
    {{end}}
  </div>
</div>
{{end}}{{end}}`

// cssContent is the report stylesheet.
const cssContent = `
:root {
  --bg: #ffffff;
  --fg: #1f2328;
  --muted: #656d76;
  --border: #d0d7de;
  --pass: #1a7f37;
  --fail: #cf222e;
  --accent: #0969da;
}
* { box-sizing: border-box; }
body {
  margin: 0 auto;
  max-width: 960px;
  padding: 0 1rem 4rem;
  font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
  color: var(--fg);
  background: var(--bg);
  line-height: 1.5;
}
header h1 { margin-bottom: 0.25rem; }
.meta { color: var(--muted); margin-top: 0; }
.tabs { display: flex; gap: 0.25rem; border-bottom: 2px solid var(--border); }
.tab {
  border: none;
  background: none;
  padding: 0.5rem 1rem;
  font-size: 1rem;
  cursor: pointer;
  color: var(--muted);
  border-bottom: 2px solid transparent;
  margin-bottom: -2px;
}
.tab.active { color: var(--accent); border-bottom-color: var(--accent); }
.tab-content { display: none; padding-top: 1rem; }
.tab-content.active { display: block; }
.cards { display: flex; flex-wrap: wrap; gap: 0.75rem; }
.card {
  flex: 1 1 140px;
  border: 1px solid var(--border);
  border-radius: 6px;
  padding: 0.75rem 1rem;
  display: flex;
  flex-direction: column;
}
.card .num { font-size: 1.6rem; font-weight: 600; }
.card.pass .num { color: var(--pass); }
.card.fail .num { color: var(--fail); }
.result { border: 1px solid var(--border); border-radius: 6px; margin-bottom: 0.5rem; overflow: hidden; }
.collapsible {
  width: 100%;
  display: flex;
  align-items: center;
  gap: 0.75rem;
  border: none;
  background: #f6f8fa;
  padding: 0.6rem 0.9rem;
  font-size: 0.95rem;
  cursor: pointer;
  text-align: left;
}
.collapsible.active { border-bottom: 1px solid var(--border); }
.method { font-weight: 700; font-family: monospace; }
.method.GET { color: var(--accent); }
.method.POST { color: var(--pass); }
.method.DELETE { color: var(--fail); }
.path { font-family: monospace; flex: 1; }
.status { color: var(--muted); }
.badge { font-size: 0.75rem; font-weight: 700; padding: 0.1rem 0.5rem; border-radius: 10px; color: #fff; }
.badge.pass { background: var(--pass); }
.badge.fail { background: var(--fail); }
.duration { color: var(--muted); font-size: 0.85rem; }
.content { display: none; padding: 0.75rem 1rem; }
.content.shown { display: block; }
.description { color: var(--muted); }
.validation h4, .exchange h4 { margin: 0.5rem 0 0.25rem; }
.issue.error { color: var(--fail); margin: 0.15rem 0; }
.issue.warning { color: #9a6700; margin: 0.15rem 0; }
.error { color: var(--fail); }
pre {
  background: #f6f8fa;
  border-radius: 6px;
  padding: 0.6rem;
  overflow-x: auto;
  font-size: 0.85rem;
}
.empty { color: var(--muted); }
`

// jsContent keeps tab and fold state in sync after load. The clicked
// element is always passed explicitly; nothing reads ambient event state.
const jsContent = `
function selectTab(selector, id) {
  var panel = document.getElementById(id);
  if (!panel) {
    return;
  }
  document.querySelectorAll('.tab-content').forEach(function (el) {
    el.classList.remove('active');
  });
  document.querySelectorAll('.tab').forEach(function (el) {
    el.classList.remove('active');
  });
  panel.classList.add('active');
  selector.classList.add('active');
}

function toggleCollapsible(header) {
  var content = document.getElementById(header.dataset.target);
  if (!content) {
    return;
  }
  header.classList.toggle('active');
  content.classList.toggle('shown');
}

document.querySelectorAll('.collapsible').forEach(function (header) {
  header.addEventListener('click', function () {
    toggleCollapsible(header);
  });
});
`
