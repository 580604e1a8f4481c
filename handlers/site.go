package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSite serves the marketing page shell. The page pulls everything
// dynamic (session, bot stats, finances) from the JSON endpoints; the
// decorative canvas background is drawn entirely client-side.
func RegisterSite(rg *gin.Engine, botID string) {
	rg.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, siteHTML(botID))
	})
}

func siteHTML(botID string) string {
	return `<!doctype html>
<html lang="pt-BR">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>MeuBot — Seu assistente inteligente no Discord</title>
    <style>
      body { margin: 0; font-family: sans-serif; background: #1b1e2b; color: #f0f0f0; }
      main { max-width: 720px; margin: 0 auto; padding: 4rem 1rem; text-align: center; }
      a.button { display: inline-block; padding: .75rem 1.5rem; border-radius: 6px; background: #5865f2; color: #fff; text-decoration: none; }
      canvas#bg { position: fixed; inset: 0; z-index: -1; }
    </style>
  </head>
  <body>
    <canvas id="bg"></canvas>
    <main>
      <h1 id="bot-name">MeuBot</h1>
      <p id="bot-description">Seu assistente inteligente no Discord</p>
      <p id="guild-count"></p>
      <div id="account"></div>
      <a class="button" href="/auth/login-redirect?action=login">Entrar com Discord</a>
    </main>
    <script>
      const botId = '` + botID + `';
      fetch('/bot-info?id=' + botId).then(r => r.json()).then(info => {
        document.getElementById('bot-name').textContent = info.username;
        document.getElementById('bot-description').textContent = info.description;
        if (info.guildCount) {
          document.getElementById('guild-count').textContent = info.guildCount + ' servidores';
        }
      });
      fetch('/auth/me').then(r => r.json()).then(({ user }) => {
        if (!user) return;
        document.getElementById('account').textContent = 'Olá, ' + user.username;
        fetch('/user-finances').then(r => r.ok ? r.json() : null).then(f => {
          if (f) document.getElementById('account').textContent += ' — carteira: ' + f.money + ', banco: ' + f.bank;
        });
      });
    </script>
  </body>
</html>`
}
