package agent

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Intent is a tool invocation request produced by the fallback parser.
type Intent struct {
	Tool string
	Args map[string]any
}

// Canned replies used when no tool applies.
const (
	greetingReply = "Hello! I'm your task management assistant. I can help you:\n- Add tasks: 'add task [title]'\n- List tasks: 'show my tasks' or 'list tasks'\n- Complete tasks: 'complete task [id]' or 'mark task [id] as done'\n- Delete tasks: 'delete task [id]'\n\nWhat would you like to do?"

	helpReply = "I can help you manage your tasks! Here's what I can do:\n\n**Add a task**: 'add task buy groceries' or 'create task finish report'\n**List tasks**: 'show my tasks', 'list all tasks', 'show pending tasks'\n**Complete a task**: 'complete task 1' or 'mark task 2 as done'\n**Delete a task**: 'delete task 3' or 'remove task 1'\n\nJust tell me what you'd like to do!"

	unknownReply = "I'm not sure what you'd like to do. Try:\n- 'add task [title]' to create a new task\n- 'show my tasks' to see all tasks\n- 'complete task [id]' to mark a task as done\n- 'delete task [id]' to remove a task\n\nOr say 'help' for more information!"
)

var greetings = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}

// Pattern groups, tried in a fixed priority order. The order is a contract:
// "add task to finish report" must be captured by the add matcher, never by
// the list matcher, so add patterns always run first.
var (
	addPatterns = []*regexp.Regexp{
		regexp.MustCompile(`add (?:a )?task[:\s]+(.+)`),
		regexp.MustCompile(`create (?:a )?task[:\s]+(.+)`),
		regexp.MustCompile(`new task[:\s]+(.+)`),
		regexp.MustCompile(`add[:\s]+(.+)`),
		regexp.MustCompile(`create[:\s]+(.+)`),
	}
	reTitlePrefix = regexp.MustCompile(`^(to |for )`)

	listPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(show|list|display|get|view).*tasks?`),
		regexp.MustCompile(`what.*tasks?.*have`),
		regexp.MustCompile(`my tasks?`),
		regexp.MustCompile(`all tasks?`),
		regexp.MustCompile(`pending tasks?`),
		regexp.MustCompile(`completed tasks?`),
	}

	completePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:complete|finish|done|mark).*task[:\s#]*(\d+)`),
		regexp.MustCompile(`task[:\s#]*(\d+).*(?:complete|done|finish)`),
		regexp.MustCompile(`mark[:\s#]*(\d+).*(?:complete|done)`),
		regexp.MustCompile(`complete[:\s#]*(\d+)`),
		regexp.MustCompile(`finish[:\s#]*(\d+)`),
	}

	deletePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:delete|remove|cancel).*task[:\s#]*(\d+)`),
		regexp.MustCompile(`task[:\s#]*(\d+).*(?:delete|remove)`),
		regexp.MustCompile(`delete[:\s#]*(\d+)`),
		regexp.MustCompile(`remove[:\s#]*(\d+)`),
	}

	updatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:update|change|edit|rename).*task[:\s#]*(\d+).*(?:to|as|with)[:\s]+(.+)`),
		regexp.MustCompile(`task[:\s#]*(\d+).*(?:rename|change).*(?:to|as)[:\s]+(.+)`),
	}
)

var titleCaser = cases.Title(language.English)

// ParseIntent maps free text to a tool invocation, or to a canned reply when
// no tool applies. It is a pure function used when no model backend is
// reachable; matching is case-insensitive via a lowercased copy of the input.
func ParseIntent(text string) (*Intent, string) {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, g := range greetings {
		if strings.HasPrefix(lower, g) {
			return nil, greetingReply
		}
	}

	if strings.Contains(lower, "help") || strings.Contains(lower, "what can you do") {
		return nil, helpReply
	}

	for _, p := range addPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			title := reTitlePrefix.ReplaceAllString(strings.TrimSpace(m[1]), "")
			if title != "" {
				return &Intent{
					Tool: "add_task",
					Args: map[string]any{"title": titleCaser.String(title)},
				}, "I'll add that task for you!"
			}
		}
	}

	for _, p := range listPatterns {
		if p.MatchString(lower) {
			status := "all"
			switch {
			case strings.Contains(lower, "pending"),
				strings.Contains(lower, "active"),
				strings.Contains(lower, "incomplete"):
				status = "pending"
			case strings.Contains(lower, "completed"),
				strings.Contains(lower, "done"),
				strings.Contains(lower, "finished"):
				status = "completed"
			}
			return &Intent{Tool: "list_tasks", Args: map[string]any{"status": status}}, ""
		}
	}

	for _, p := range completePatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			id, _ := strconv.ParseInt(m[1], 10, 64)
			return &Intent{Tool: "complete_task", Args: map[string]any{"task_id": id}}, ""
		}
	}

	for _, p := range deletePatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			id, _ := strconv.ParseInt(m[1], 10, 64)
			return &Intent{Tool: "delete_task", Args: map[string]any{"task_id": id}}, ""
		}
	}

	for _, p := range updatePatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			id, _ := strconv.ParseInt(m[1], 10, 64)
			title := strings.TrimSpace(m[2])
			return &Intent{
				Tool: "update_task",
				Args: map[string]any{"task_id": id, "title": titleCaser.String(title)},
			}, ""
		}
	}

	return nil, unknownReply
}
