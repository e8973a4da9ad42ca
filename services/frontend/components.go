package frontend

import (
	"context"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/taskdeck/webapp/internal/contracts"
)

// Components are rendered server-side; static/app.js re-renders the same
// markup client-side after mutations, so changes here need a matching change
// in renderTask() there.

func component(render func(sb *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		render(&sb)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func Header(user contracts.Identity) templ.Component {
	return component(func(sb *strings.Builder) {
		renderHeader(sb, user)
	})
}

func TaskList(tasks []contracts.Task, userID string) templ.Component {
	return component(func(sb *strings.Builder) {
		renderTaskList(sb, tasks, userID)
	})
}

func TaskItem(task contracts.Task) templ.Component {
	return component(func(sb *strings.Builder) {
		renderTaskItem(sb, task)
	})
}

func TaskForm(userID string) templ.Component {
	return component(func(sb *strings.Builder) {
		renderTaskForm(sb, userID)
	})
}

func AdvancedSearch() templ.Component {
	return component(renderAdvancedSearch)
}

func ChatInterface(userID string) templ.Component {
	return component(func(sb *strings.Builder) {
		renderChatInterface(sb, userID)
	})
}

func renderHeader(sb *strings.Builder, user contracts.Identity) {
	display := strings.TrimSpace(user.Name)
	if display == "" {
		display = user.Email
	}

	sb.WriteString(`<header class="app-header"><div class="app-header-inner">`)
	sb.WriteString(`<a href="/dashboard" class="brand">Taskdeck</a>`)
	sb.WriteString(`<nav class="header-nav">`)
	sb.WriteString(`<a href="/chat" class="btn btn-ghost">AI Assistant</a>`)
	sb.WriteString(`<span class="header-user">`)
	sb.WriteString(html.EscapeString(display))
	sb.WriteString(`</span>`)
	sb.WriteString(`<button id="logout-btn" class="btn btn-outline">Sign out</button>`)
	sb.WriteString(`</nav></div></header>`)
}

func renderTaskList(sb *strings.Builder, tasks []contracts.Task, userID string) {
	pending := 0
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}

	sb.WriteString(`<div id="task-board" data-user-id="`)
	sb.WriteString(html.EscapeString(userID))
	sb.WriteString(`">`)

	sb.WriteString(`<div class="stats">`)
	renderStat(sb, "stat-total", "Total Tasks", len(tasks))
	renderStat(sb, "stat-pending", "Pending", pending)
	renderStat(sb, "stat-completed", "Completed", completed)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="toolbar">`)
	sb.WriteString(`<div class="filter-group" id="status-filter">`)
	sb.WriteString(`<button class="btn filter-btn active" data-filter="all">All</button>`)
	sb.WriteString(`<button class="btn filter-btn" data-filter="pending">Pending</button>`)
	sb.WriteString(`<button class="btn filter-btn" data-filter="completed">Completed</button>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`<button id="new-task-btn" class="btn btn-primary">+ New Task</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div id="task-form-panel" class="panel hidden">`)
	sb.WriteString(`<h3>Create New Task</h3>`)
	renderTaskForm(sb, userID)
	sb.WriteString(`</div>`)

	renderAdvancedSearch(sb)

	sb.WriteString(`<div id="task-error" class="error-box hidden"></div>`)
	sb.WriteString(`<div id="task-items">`)
	if len(tasks) == 0 {
		sb.WriteString(`<div id="task-empty" class="empty-box">No tasks yet. Create one to get started!</div>`)
	} else {
		for _, task := range tasks {
			renderTaskItem(sb, task)
		}
	}
	sb.WriteString(`</div></div>`)
}

func renderStat(sb *strings.Builder, id, label string, value int) {
	sb.WriteString(`<div class="stat"><span class="stat-label">`)
	sb.WriteString(html.EscapeString(label))
	sb.WriteString(`</span><span class="stat-value" id="`)
	sb.WriteString(id)
	sb.WriteString(`">`)
	sb.WriteString(strconv.Itoa(value))
	sb.WriteString(`</span></div>`)
}

func renderTaskItem(sb *strings.Builder, task contracts.Task) {
	sb.WriteString(`<div class="task-item" data-task-id="`)
	sb.WriteString(strconv.FormatInt(task.ID, 10))
	sb.WriteString(`" data-completed="`)
	sb.WriteString(strconv.FormatBool(task.Completed))
	sb.WriteString(`">`)

	sb.WriteString(`<label class="task-check"><input type="checkbox" class="toggle-box"`)
	if task.Completed {
		sb.WriteString(` checked`)
	}
	sb.WriteString(`></label>`)

	sb.WriteString(`<div class="task-body"><div class="task-title">`)
	sb.WriteString(html.EscapeString(task.Title))
	sb.WriteString(`</div>`)
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		sb.WriteString(`<div class="task-desc">`)
		sb.WriteString(html.EscapeString(*task.Description))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`<div class="task-meta">`)
	if contracts.IsValidPriority(task.Priority) {
		sb.WriteString(`<span class="badge priority-`)
		sb.WriteString(task.Priority)
		sb.WriteString(`">`)
		sb.WriteString(task.Priority)
		sb.WriteString(`</span>`)
	}
	if task.DueDate != nil {
		sb.WriteString(`<span class="badge due">Due `)
		sb.WriteString(task.DueDate.Format("Jan 2, 2006"))
		sb.WriteString(`</span>`)
	}
	if task.IsRecurring && task.Recurrence != nil {
		sb.WriteString(`<span class="badge recurring">repeats `)
		sb.WriteString(html.EscapeString(task.Recurrence.Frequency))
		sb.WriteString(`</span>`)
	}
	for _, tag := range task.Tags {
		sb.WriteString(`<span class="tag">#`)
		sb.WriteString(html.EscapeString(tag.Name))
		sb.WriteString(`</span>`)
	}
	sb.WriteString(`</div></div>`)

	sb.WriteString(`<div class="task-actions">`)
	sb.WriteString(`<button class="btn btn-ghost edit-btn">Edit</button>`)
	sb.WriteString(`<button class="btn btn-danger delete-btn">Delete</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="task-edit hidden">`)
	sb.WriteString(`<input type="text" class="input edit-title" value="`)
	sb.WriteString(html.EscapeString(task.Title))
	sb.WriteString(`">`)
	sb.WriteString(`<input type="text" class="input edit-desc" placeholder="Description" value="`)
	if task.Description != nil {
		sb.WriteString(html.EscapeString(*task.Description))
	}
	sb.WriteString(`">`)
	sb.WriteString(`<button class="btn btn-primary save-btn">Save</button>`)
	sb.WriteString(`<button class="btn btn-ghost cancel-btn">Cancel</button>`)
	sb.WriteString(`</div></div>`)
}

func renderTaskForm(sb *strings.Builder, userID string) {
	sb.WriteString(`<form id="task-form" data-user-id="`)
	sb.WriteString(html.EscapeString(userID))
	sb.WriteString(`">`)
	sb.WriteString(`<input type="text" name="title" class="input" placeholder="Task title" required>`)
	sb.WriteString(`<textarea name="description" class="input" placeholder="Description (optional)"></textarea>`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(`<select name="priority" class="input"><option value="">Priority</option>`)
	for _, p := range []string{contracts.PriorityLow, contracts.PriorityMedium, contracts.PriorityHigh, contracts.PriorityUrgent} {
		sb.WriteString(`<option value="`)
		sb.WriteString(p)
		sb.WriteString(`">`)
		sb.WriteString(p)
		sb.WriteString(`</option>`)
	}
	sb.WriteString(`</select>`)
	sb.WriteString(`<input type="date" name="due_date" class="input">`)
	sb.WriteString(`<input type="text" name="tags" class="input" placeholder="Tags, comma separated">`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(`<label class="check-label"><input type="checkbox" name="is_recurring"> Recurring</label>`)
	sb.WriteString(`<select name="frequency" class="input"><option value="">Frequency</option>`)
	for _, f := range []string{contracts.FrequencyDaily, contracts.FrequencyWeekly, contracts.FrequencyMonthly, contracts.FrequencyYearly} {
		sb.WriteString(`<option value="`)
		sb.WriteString(f)
		sb.WriteString(`">`)
		sb.WriteString(f)
		sb.WriteString(`</option>`)
	}
	sb.WriteString(`</select>`)
	sb.WriteString(`<input type="number" name="interval" class="input" min="1" value="1">`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<button type="submit" class="btn btn-primary">Create Task</button>`)
	sb.WriteString(`</form>`)
}

func renderAdvancedSearch(sb *strings.Builder) {
	sb.WriteString(`<div id="advanced-search" class="panel">`)
	sb.WriteString(`<div class="panel-header">`)
	sb.WriteString(`<h3>Advanced Search &amp; Filters</h3>`)
	sb.WriteString(`<button id="search-toggle-btn" class="btn btn-ghost">Show Filters</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div id="search-filters" class="hidden">`)
	sb.WriteString(`<input type="text" id="search-text" class="input" placeholder="Search tasks by title or description">`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(`<select id="search-status" class="input">`)
	sb.WriteString(`<option value="all">All statuses</option>`)
	sb.WriteString(`<option value="pending">Pending</option>`)
	sb.WriteString(`<option value="completed">Completed</option>`)
	sb.WriteString(`</select>`)
	sb.WriteString(`<input type="text" id="search-tags" class="input" placeholder="Tags, comma separated">`)
	sb.WriteString(`<select id="search-recurring" class="input">`)
	sb.WriteString(`<option value="">Any recurrence</option>`)
	sb.WriteString(`<option value="true">Recurring only</option>`)
	sb.WriteString(`<option value="false">One-off only</option>`)
	sb.WriteString(`</select>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="form-row" id="search-priorities">`)
	for _, p := range []string{contracts.PriorityLow, contracts.PriorityMedium, contracts.PriorityHigh, contracts.PriorityUrgent} {
		sb.WriteString(`<label class="check-label"><input type="checkbox" value="`)
		sb.WriteString(p)
		sb.WriteString(`"> `)
		sb.WriteString(p)
		sb.WriteString(`</label>`)
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(`<label class="field-label">Due after <input type="date" id="search-due-after" class="input"></label>`)
	sb.WriteString(`<label class="field-label">Due before <input type="date" id="search-due-before" class="input"></label>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(`<button id="search-btn" class="btn btn-primary">Search</button>`)
	sb.WriteString(`<button id="search-reset-btn" class="btn btn-ghost">Reset</button>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`</div></div>`)
}

func renderChatInterface(sb *strings.Builder, userID string) {
	sb.WriteString(`<div id="chat-box" data-user-id="`)
	sb.WriteString(html.EscapeString(userID))
	sb.WriteString(`">`)
	sb.WriteString(`<div id="chat-messages">`)
	sb.WriteString(`<div class="chat-msg assistant">Hi! I can add, list, complete, update, and delete your tasks. What would you like to do?</div>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`<div id="chat-error" class="error-box hidden"></div>`)
	sb.WriteString(`<form id="chat-form">`)
	sb.WriteString(`<input type="text" id="chat-input" class="input" placeholder="Ask the assistant..." autocomplete="off">`)
	sb.WriteString(`<button type="submit" class="btn btn-primary">Send</button>`)
	sb.WriteString(`</form></div>`)
}
