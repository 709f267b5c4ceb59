// Package html renders trees as self-contained interactive viewer pages.
//
// The page embeds the graph as JSON next to a script that draws it and
// implements the viewer behaviors: pan, zoom, fit, search with a timed
// highlight, and copy-path-on-click. No network access is needed unless a
// search or edit endpoint is configured, so an exported file keeps working
// from disk.
package html

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/arborview/arbor/pkg/graph"
	"github.com/arborview/arbor/pkg/render"
	"github.com/arborview/arbor/pkg/tree"
)

// Options configures the viewer page.
type Options struct {
	// Title is the page title. Empty means "arbor".
	Title string

	// Theme selects the color palette. The zero value means render.Light.
	Theme render.Theme

	// SearchURL, when set, makes the page resolve queries against that
	// endpoint instead of the built-in matcher. Static exports leave it
	// empty and search locally.
	SearchURL string

	// EditURL, when set, adds an editor panel that posts replacement
	// document text to that endpoint and reloads the page on success.
	// Static exports leave it empty, so the exported file has no editor.
	EditURL string
}

// Render produces a standalone HTML page for the tree.
func Render(t *tree.Tree, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = "arbor"
	}
	theme := opts.Theme
	if theme.Name == "" {
		theme = render.Light
	}

	graphJSON, err := json.Marshal(graph.FromTree(t))
	if err != nil {
		return nil, err
	}

	themeJSON, err := json.Marshal(map[string]string{
		"background": theme.Background,
		"text":       theme.Text,
		"nodeStroke": theme.NodeStroke,
		"edgeStroke": theme.EdgeStroke,
		"object":     theme.ObjectFill,
		"array":      theme.ArrayFill,
		"string":     theme.StringFill,
		"number":     theme.NumberFill,
		"boolean":    theme.BooleanFill,
		"null":       theme.NullFill,
	})
	if err != nil {
		return nil, err
	}

	searchURLJSON, err := json.Marshal(opts.SearchURL)
	if err != nil {
		return nil, err
	}

	editURLJSON, err := json.Marshal(opts.EditURL)
	if err != nil {
		return nil, err
	}

	data := struct {
		Title         string
		HasEditor     bool
		GraphJSON     template.JS
		ThemeJSON     template.JS
		SearchURLJSON template.JS
		EditURLJSON   template.JS
	}{
		Title:         opts.Title,
		HasEditor:     opts.EditURL != "",
		GraphJSON:     template.JS(graphJSON),
		ThemeJSON:     template.JS(themeJSON),
		SearchURLJSON: template.JS(searchURLJSON),
		EditURLJSON:   template.JS(editURLJSON),
	}

	tmpl, err := template.New("viewer").Parse(viewerTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const viewerTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  html, body { height: 100%; overflow: hidden; }
  body { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; }
  #bar {
    position: fixed; top: 12px; left: 12px; right: 12px; z-index: 10;
    display: flex; gap: 8px; align-items: center; pointer-events: none;
  }
  #search {
    pointer-events: auto; flex: 0 1 360px; padding: 8px 12px;
    font: inherit; font-size: 13px; border: 1px solid rgba(128,128,128,0.5);
    border-radius: 6px; outline: none; background: rgba(255,255,255,0.92); color: #111;
  }
  #status { font-size: 12px; opacity: 0.75; }
  #edit-toggle, #editor-apply {
    pointer-events: auto; padding: 8px 14px; font: inherit; font-size: 13px;
    border: 1px solid rgba(128,128,128,0.5); border-radius: 6px;
    background: rgba(255,255,255,0.92); color: #111; cursor: pointer;
  }
  #editor-panel {
    position: fixed; top: 56px; left: 12px; bottom: 16px; width: 380px;
    z-index: 10; display: none; flex-direction: column; gap: 8px;
  }
  #editor-panel.open { display: flex; }
  #editor {
    flex: 1; resize: none; padding: 10px; font: inherit; font-size: 13px;
    border: 1px solid rgba(128,128,128,0.5); border-radius: 6px;
    background: rgba(255,255,255,0.95); color: #111; outline: none;
  }
  #editor-row { display: flex; gap: 8px; align-items: center; }
  #editor-error { font-size: 12px; color: #dc2626; }
  #canvas { width: 100vw; height: 100vh; display: block; cursor: grab; }
  #canvas.panning { cursor: grabbing; }
  .node { cursor: pointer; }
  .node rect { transition: stroke-width 0.15s ease; }
  .node:hover rect { stroke-width: 3; }
  .node.flash rect { stroke: #f59e0b; stroke-width: 4; }
  #toast {
    position: fixed; bottom: 16px; left: 50%; transform: translateX(-50%);
    padding: 6px 14px; border-radius: 6px; background: rgba(17,24,39,0.85);
    color: #f9fafb; font-size: 12px; opacity: 0; transition: opacity 0.2s ease;
    pointer-events: none;
  }
  #toast.show { opacity: 1; }
</style>
</head>
<body>
<div id="bar">
  <input id="search" type="text" placeholder="Search path or value, Enter to jump" spellcheck="false">
{{if .HasEditor}}  <button id="edit-toggle" type="button">edit</button>
{{end}}  <span id="status"></span>
</div>
{{if .HasEditor}}<div id="editor-panel">
  <textarea id="editor" placeholder="Paste JSON, then apply" spellcheck="false"></textarea>
  <div id="editor-row">
    <button id="editor-apply" type="button">apply</button>
    <span id="editor-error"></span>
  </div>
</div>
{{end}}<svg id="canvas"><g id="world"></g></svg>
<div id="toast"></div>
<script>
var GRAPH = {{.GraphJSON}};
var THEME = {{.ThemeJSON}};
var SEARCH_URL = {{.SearchURLJSON}};
var EDIT_URL = {{.EditURLJSON}};

var NODE_W = 220, NODE_H = 48;
var svgNS = 'http://www.w3.org/2000/svg';
var canvas = document.getElementById('canvas');
var world = document.getElementById('world');
var input = document.getElementById('search');
var statusEl = document.getElementById('status');
var toastEl = document.getElementById('toast');

var NODES = GRAPH.nodes || [];
var EDGES = GRAPH.edges || [];
var byId = {};
NODES.forEach(function (n) { byId[n.id] = n; });

document.body.style.background = THEME.background;
statusEl.style.color = THEME.text;

var defaultStatus = NODES.length + ' nodes · depth ' + (GRAPH.meta ? GRAPH.meta.depth : 0);

function setStatus(text) { statusEl.textContent = text; }
setStatus(defaultStatus);

// --- drawing -------------------------------------------------------------

function el(name, attrs) {
  var e = document.createElementNS(svgNS, name);
  for (var k in attrs) { e.setAttribute(k, attrs[k]); }
  return e;
}

EDGES.forEach(function (edge) {
  var p = byId[edge.source], c = byId[edge.target];
  if (!p || !c) { return; }
  var x1 = p.position.x, y1 = p.position.y + NODE_H;
  var x2 = c.position.x, y2 = c.position.y;
  var mid = (y1 + y2) / 2;
  world.appendChild(el('path', {
    d: 'M ' + x1 + ' ' + y1 + ' C ' + x1 + ' ' + mid + ', ' + x2 + ' ' + mid + ', ' + x2 + ' ' + y2,
    fill: 'none', stroke: THEME.edgeStroke, 'stroke-width': 1.5
  }));
});

NODES.forEach(function (n) {
  var g = el('g', {'class': 'node', id: 'node-' + n.id});
  var title = document.createElementNS(svgNS, 'title');
  title.textContent = n.path;
  g.appendChild(title);
  g.appendChild(el('rect', {
    x: n.position.x - NODE_W / 2, y: n.position.y,
    width: NODE_W, height: NODE_H, rx: 8,
    fill: THEME[n.kind] || THEME['null'], stroke: THEME.nodeStroke
  }));
  var label = n.label.length > 24 ? n.label.slice(0, 22) + '..' : n.label;
  var text = el('text', {
    x: n.position.x, y: n.position.y + NODE_H / 2,
    'text-anchor': 'middle', 'dominant-baseline': 'central',
    'font-size': 14, fill: THEME.text
  });
  text.textContent = label;
  g.appendChild(text);
  g.addEventListener('click', function () { copyPath(n.path); });
  world.appendChild(g);
});

// --- viewport ------------------------------------------------------------

var view = {x: 0, y: 0, k: 1};

function applyView() {
  world.setAttribute('transform', 'translate(' + view.x + ',' + view.y + ') scale(' + view.k + ')');
}

function getZoom() { return view.k; }

function setCenter(x, y, zoom) {
  if (zoom !== undefined) { view.k = zoom; }
  view.x = canvas.clientWidth / 2 - x * view.k;
  view.y = canvas.clientHeight / 2 - y * view.k;
  applyView();
}

function fitView(padding) {
  if (NODES.length === 0) { return; }
  if (padding === undefined) { padding = 48; }
  var minX = Infinity, minY = Infinity, maxX = -Infinity, maxY = -Infinity;
  NODES.forEach(function (n) {
    minX = Math.min(minX, n.position.x - NODE_W / 2);
    maxX = Math.max(maxX, n.position.x + NODE_W / 2);
    minY = Math.min(minY, n.position.y);
    maxY = Math.max(maxY, n.position.y + NODE_H);
  });
  var w = Math.max(1, maxX - minX), h = Math.max(1, maxY - minY);
  var kx = (canvas.clientWidth - 2 * padding) / w;
  var ky = (canvas.clientHeight - 2 * padding) / h;
  view.k = Math.min(2, Math.min(kx, ky));
  setCenter(minX + w / 2, minY + h / 2);
}

canvas.addEventListener('wheel', function (ev) {
  ev.preventDefault();
  var factor = ev.deltaY < 0 ? 1.1 : 0.9;
  var k = Math.max(0.05, Math.min(4, view.k * factor));
  var rect = canvas.getBoundingClientRect();
  var px = ev.clientX - rect.left, py = ev.clientY - rect.top;
  view.x = px - (px - view.x) * (k / view.k);
  view.y = py - (py - view.y) * (k / view.k);
  view.k = k;
  applyView();
}, {passive: false});

var panning = null;
canvas.addEventListener('pointerdown', function (ev) {
  panning = {x: ev.clientX - view.x, y: ev.clientY - view.y};
  canvas.classList.add('panning');
  canvas.setPointerCapture(ev.pointerId);
});
canvas.addEventListener('pointermove', function (ev) {
  if (!panning) { return; }
  view.x = ev.clientX - panning.x;
  view.y = ev.clientY - panning.y;
  applyView();
});
canvas.addEventListener('pointerup', function () {
  panning = null;
  canvas.classList.remove('panning');
});

// Refit once per frame, not once per resize event.
var refitPending = false;
window.addEventListener('resize', function () {
  if (refitPending) { return; }
  refitPending = true;
  requestAnimationFrame(function () { refitPending = false; fitView(); });
});

fitView();

// --- highlight -----------------------------------------------------------

var flashTimer = null;
var flashNode = null;

function clearFlash() {
  if (flashTimer) { clearTimeout(flashTimer); flashTimer = null; }
  if (flashNode) { flashNode.classList.remove('flash'); flashNode = null; }
}

function highlightNode(id) {
  clearFlash();
  var g = document.getElementById('node-' + id);
  if (!g) { return; }
  g.classList.add('flash');
  flashNode = g;
  flashTimer = setTimeout(clearFlash, 1200);
}

// --- clipboard -----------------------------------------------------------

var toastTimer = null;
function toast(text) {
  toastEl.textContent = text;
  toastEl.classList.add('show');
  if (toastTimer) { clearTimeout(toastTimer); }
  toastTimer = setTimeout(function () { toastEl.classList.remove('show'); }, 1500);
}

function copyPath(path) {
  if (!navigator.clipboard) { return; }
  navigator.clipboard.writeText(path).then(function () {
    toast('copied ' + path);
  }).catch(function () {
    // Clipboard access can be denied; the viewer keeps working.
  });
}

// --- search --------------------------------------------------------------

function normalizeQuery(q) {
  q = q.trim();
  if (q === '' || q === '.') { return '$'; }
  if (q.charAt(0) !== '$') {
    q = q.charAt(0) === '.' ? '$' + q : '$.' + q;
  }
  q = q.replace(/\s*([.\[\]])\s*/g, '$1');
  q = q.replace(/\.{2,}/g, '.');
  q = q.split('.[').join('[');
  if (q.charAt(q.length - 1) === '.') { q = q.slice(0, -1); }
  if (q === '') { q = '$'; }
  return q;
}

function stripRoot(p) {
  if (p.charAt(0) === '$') { p = p.slice(1); }
  if (p.charAt(0) === '.') { p = p.slice(1); }
  return p;
}

// Local fallback cascade: exact path, value text, root-stripped alternate,
// path suffix, then substring. The server endpoint runs the full resolver.
function resolveLocal(raw) {
  var norm = normalizeQuery(raw);
  var i, n;
  for (i = 0; i < NODES.length; i++) {
    if (NODES[i].path === norm) { return {id: NODES[i].id, path: NODES[i].path, stage: 'exact', query: norm}; }
  }
  var needle = raw.trim().toLowerCase();
  if (needle !== '') {
    for (i = 0; i < NODES.length; i++) {
      n = NODES[i];
      if (n.value && String(n.value).toLowerCase().indexOf(needle) !== -1) {
        return {id: n.id, path: n.path, stage: 'value', query: norm};
      }
    }
  }
  var stripped = stripRoot(norm);
  for (i = 0; i < NODES.length; i++) {
    if (stripRoot(NODES[i].path) === stripped) { return {id: NODES[i].id, path: NODES[i].path, stage: 'alternate', query: norm}; }
  }
  for (i = 0; i < NODES.length; i++) {
    n = NODES[i];
    if (n.path.slice(-stripped.length - 1) === '.' + stripped ||
        n.path.slice(-stripped.length - 2) === '[' + stripped + ']' ||
        n.path.slice(-stripped.length) === stripped) {
      return {id: n.id, path: n.path, stage: 'suffix', query: norm};
    }
  }
  for (i = 0; i < NODES.length; i++) {
    if (NODES[i].path.indexOf(stripped) !== -1) { return {id: NODES[i].id, path: NODES[i].path, stage: 'contains', query: norm}; }
  }
  return {query: norm};
}

function resolveRemote(raw) {
  return fetch(SEARCH_URL, {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({query: raw})
  }).then(function (resp) {
    if (!resp.ok) { throw new Error('search failed'); }
    return resp.json();
  });
}

function showResult(result) {
  if (!result || !result.id || !byId[result.id]) {
    clearFlash();
    setStatus('no match for ' + (result ? result.query : ''));
    return;
  }
  var n = byId[result.id];
  setStatus(n.path + ' · ' + (result.stage || 'match'));
  setCenter(n.position.x, n.position.y + NODE_H / 2, Math.max(getZoom(), 1));
  highlightNode(n.id);
}

function runSearch(raw) {
  if (raw.trim() === '') {
    clearFlash();
    setStatus(defaultStatus);
    return;
  }
  if (SEARCH_URL) {
    resolveRemote(raw).then(showResult).catch(function () {
      showResult(resolveLocal(raw));
    });
    return;
  }
  showResult(resolveLocal(raw));
}

input.addEventListener('keydown', function (ev) {
  if (ev.key === 'Enter') { runSearch(input.value); }
  if (ev.key === 'Escape') { input.value = ''; runSearch(''); }
});

document.addEventListener('keydown', function (ev) {
  if (ev.target === input) { return; }
  if (ev.target && ev.target.id === 'editor') { return; }
  if (ev.key === 'f') { fitView(); }
  if (ev.key === '/') { ev.preventDefault(); input.focus(); }
});

// --- editor --------------------------------------------------------------

var editBtn = document.getElementById('edit-toggle');
if (editBtn) {
  var panel = document.getElementById('editor-panel');
  var editor = document.getElementById('editor');
  var errEl = document.getElementById('editor-error');

  editBtn.addEventListener('click', function () {
    panel.classList.toggle('open');
    if (panel.classList.contains('open')) { editor.focus(); }
  });

  document.getElementById('editor-apply').addEventListener('click', function () {
    errEl.textContent = '';
    fetch(EDIT_URL, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({text: editor.value})
    }).then(function (resp) {
      if (resp.ok) {
        // The served page always shows the newest document, so a plain
        // reload picks up the replacement and refits once it is drawn.
        location.reload();
        return;
      }
      return resp.json().then(function (body) {
        throw new Error(body && body.error ? body.error.message : 'upload failed');
      });
    }).catch(function (err) {
      // A document that fails to parse leaves nothing to draw.
      while (world.firstChild) { world.removeChild(world.firstChild); }
      NODES = [];
      byId = {};
      clearFlash();
      errEl.textContent = err.message;
      setStatus(err.message);
    });
  });
}
</script>
</body>
</html>
`
