package webui

// rootHTML is the single-page preview client. Frames arrive on the
// websocket prefixed with "S" (spectrum) or "W" (waterfall) followed
// by a base64 PNG; key presses and mouse events go back as JSON.
const rootHTML = `<!DOCTYPE html>
<html>
<head>
<title>LUSI Spectrometer</title>
<style>
body { background: #202020; color: #ddd; font-family: monospace; }
img { display: block; margin: 8px auto; image-rendering: pixelated; }
#help { text-align: center; }
</style>
</head>
<body>
<img id="spectrum" alt="spectrum">
<img id="waterfall" alt="">
<p id="help">h hold | m measure | p record | c calibrate | x clear | s save |
o/l order | i/k distance | u/j threshold | q quit</p>
<script>
var ws = new WebSocket("ws://" + location.host + "/stream");
var spectrum = document.getElementById("spectrum");
var waterfall = document.getElementById("waterfall");
ws.onmessage = function (e) {
  var kind = e.data[0];
  var b64 = e.data.substring(1);
  if (kind === "S") {
    spectrum.src = "data:image/png;base64," + b64;
  } else if (kind === "W") {
    waterfall.src = "data:image/png;base64," + b64;
  }
};
function send(msg) {
  if (ws.readyState === WebSocket.OPEN) {
    ws.send(JSON.stringify(msg));
  }
}
document.addEventListener("keydown", function (e) {
  if (e.key.length === 1) {
    send({type: "key", key: e.key});
  }
});
function coords(e) {
  var r = spectrum.getBoundingClientRect();
  return {x: Math.round(e.clientX - r.left), y: Math.round(e.clientY - r.top)};
}
spectrum.addEventListener("mousemove", function (e) {
  var c = coords(e);
  send({type: "move", x: c.x, y: c.y});
});
spectrum.addEventListener("mousedown", function (e) {
  var c = coords(e);
  send({type: "click", x: c.x, y: c.y});
});
</script>
</body>
</html>
`
