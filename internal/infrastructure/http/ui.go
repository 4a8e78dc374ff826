package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleIndex renders the chat widget. The page opens a session on load and
// polls its status while the verse index is being built.
func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="it">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>versebot</title>
    <style>
        body { font-family: system-ui, sans-serif; background: #f4f1ec; margin: 0; }
        .container { max-width: 560px; margin: 0 auto; height: 100vh; display: flex; flex-direction: column; }
        header { padding: 16px; border-bottom: 1px solid #ddd; }
        header h1 { margin: 0; font-size: 1.2em; }
        #status { font-size: 0.85em; color: #777; }
        #messages { flex: 1; overflow-y: auto; padding: 16px; }
        .message { margin: 8px 0; padding: 8px 12px; border-radius: 12px; max-width: 80%; }
        .user { background: #d8ecff; margin-left: auto; }
        .bot { background: #fff; font-style: italic; }
        .typing { color: #999; }
        form { display: flex; padding: 12px; gap: 8px; border-top: 1px solid #ddd; }
        input { flex: 1; padding: 8px; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>versebot</h1>
            <span id="status">loading</span>
        </header>
        <div id="messages"></div>
        <form id="chat-form" onsubmit="send(event)">
            <input type="text" id="chat-input" placeholder="Scrivi un messaggio..." autocomplete="off" required>
            <button type="submit">Invia</button>
        </form>
    </div>

    <script>
        let sessionId = null;

        async function openSession() {
            const resp = await fetch('/api/sessions', { method: 'POST' });
            const data = await resp.json();
            sessionId = data.id;
            showStatus(data);
            poll();
        }

        async function poll() {
            const resp = await fetch('/api/sessions/' + sessionId);
            if (!resp.ok) return;
            const data = await resp.json();
            showStatus(data);
            if (data.status.phase === 'loading' || data.status.phase === 'indexing') {
                setTimeout(poll, 1000);
            }
        }

        function showStatus(data) {
            document.getElementById('status').textContent = data.status_line;
        }

        function append(cls, text) {
            const el = document.createElement('div');
            el.className = 'message ' + cls;
            el.textContent = text;
            const messages = document.getElementById('messages');
            messages.appendChild(el);
            messages.scrollTop = messages.scrollHeight;
            return el;
        }

        async function send(e) {
            e.preventDefault();
            const input = document.getElementById('chat-input');
            const text = input.value.trim();
            if (!text || !sessionId) return;
            input.value = '';
            append('user', text);
            const typing = append('bot typing', '...');

            const resp = await fetch('/api/sessions/' + sessionId + '/messages', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ text: text })
            });
            const data = await resp.json();
            typing.className = 'message bot';
            typing.textContent = resp.ok ? data.reply : data.error;
        }

        openSession();
    </script>
</body>
</html>`
