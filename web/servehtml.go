package web

import (
	"net/http"
)

const page = `<!DOCTYPE html>
<html>
<head>
    <title>Ludo Spectator</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .match { max-width: 720px; margin: 0 auto; }
        pre { background-color: #111; color: #eee; padding: 12px; border-radius: 5px; line-height: 1.1; }
        .status { padding: 10px; margin: 10px 0; background-color: #f0f0f0; border-radius: 5px; }
        #events { height: 200px; overflow-y: auto; font-size: 14px; border: 1px solid #ccc; padding: 6px; }
    </style>
</head>
<body>
    <div class="match">
        <h1>Ludo</h1>
        <div class="status" id="status">Connecting...</div>
        <pre id="board"></pre>
        <div id="events"></div>
    </div>

    <script>
        const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
        const ws = new WebSocket(scheme + location.host + '/api/ws');

        ws.onopen = function() {
            document.getElementById('status').textContent = 'Watching';
        };

        ws.onclose = function() {
            document.getElementById('status').textContent = 'Disconnected';
        };

        ws.onmessage = function(event) {
            const message = JSON.parse(event.data);
            switch (message.type) {
                case 'state':
                    document.getElementById('board').textContent = message.data.board;
                    if (message.data.snapshot.result) {
                        document.getElementById('status').textContent = 'Match over';
                    }
                    break;
                case 'event':
                    logEvent(message.data);
                    break;
            }
        };

        function logEvent(e) {
            const line = document.createElement('div');
            let text = e.kind + ' ' + e.color;
            if (e.dice) text += ' rolled ' + e.dice;
            if (e.kind === 'token_moved') text += ' token ' + (e.token + 1);
            line.textContent = text;
            const log = document.getElementById('events');
            log.appendChild(line);
            log.scrollTop = log.scrollHeight;
        }
    </script>
</body>
</html>
`

// ServeHTML serves the spectator page.
func ServeHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(page)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
