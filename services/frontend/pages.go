package frontend

import (
	"html"
	"strings"

	"github.com/a-h/templ"
	"github.com/taskdeck/webapp/internal/contracts"
)

func LoginPage() templ.Component {
	return component(func(sb *strings.Builder) {
		openPage(sb, "Sign in", contracts.Identity{})

		sb.WriteString(`<main class="auth-main">`)
		sb.WriteString(`<div class="auth-card">`)
		sb.WriteString(`<h1 class="brand">Taskdeck</h1>`)
		sb.WriteString(`<div class="tab-row">`)
		sb.WriteString(`<button id="tab-login" class="btn tab-btn active">Sign in</button>`)
		sb.WriteString(`<button id="tab-register" class="btn tab-btn">Create account</button>`)
		sb.WriteString(`</div>`)

		sb.WriteString(`<div id="auth-error" class="error-box hidden"></div>`)
		sb.WriteString(`<div id="auth-notice" class="notice-box hidden"></div>`)

		sb.WriteString(`<form id="login-form">`)
		sb.WriteString(`<input type="email" name="email" class="input" placeholder="Email" required>`)
		sb.WriteString(`<input type="password" name="password" class="input" placeholder="Password" required>`)
		sb.WriteString(`<button type="submit" class="btn btn-primary">Sign in</button>`)
		sb.WriteString(`</form>`)

		sb.WriteString(`<form id="register-form" class="hidden">`)
		sb.WriteString(`<input type="text" name="name" class="input" placeholder="Name (optional)">`)
		sb.WriteString(`<input type="email" name="email" class="input" placeholder="Email" required>`)
		sb.WriteString(`<input type="password" name="password" class="input" placeholder="Password (8+ characters)" required minlength="8">`)
		sb.WriteString(`<button type="submit" class="btn btn-primary">Create account</button>`)
		sb.WriteString(`</form>`)

		sb.WriteString(`</div></main>`)
		closePage(sb)
	})
}

func DashboardPage(user contracts.Identity, tasks []contracts.Task) templ.Component {
	return component(func(sb *strings.Builder) {
		openPage(sb, "My Tasks", user)
		renderHeader(sb, user)

		sb.WriteString(`<main class="page-main">`)
		sb.WriteString(`<div class="page-title"><h1>My Tasks</h1><p>Manage your tasks efficiently</p></div>`)
		renderTaskList(sb, tasks, user.ID)
		sb.WriteString(`</main>`)
		closePage(sb)
	})
}

func ChatPage(user contracts.Identity) templ.Component {
	return component(func(sb *strings.Builder) {
		openPage(sb, "AI Assistant", user)
		renderHeader(sb, user)

		sb.WriteString(`<main class="page-main">`)
		sb.WriteString(`<div class="page-title"><h1>AI Assistant</h1><p>Manage tasks in plain language</p></div>`)
		renderChatInterface(sb, user.ID)
		sb.WriteString(`</main>`)
		closePage(sb)
	})
}

func openPage(sb *strings.Builder, title string, user contracts.Identity) {
	sb.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	sb.WriteString(`<title>`)
	sb.WriteString(html.EscapeString(title))
	sb.WriteString(` - Taskdeck</title>`)
	sb.WriteString(`<link rel="stylesheet" href="/static/styles.css">`)
	sb.WriteString(`<script src="/static/app.js" defer></script>`)
	sb.WriteString(`</head><body data-user-id="`)
	sb.WriteString(html.EscapeString(user.ID))
	sb.WriteString(`">`)
}

func closePage(sb *strings.Builder) {
	sb.WriteString(`</body></html>`)
}
