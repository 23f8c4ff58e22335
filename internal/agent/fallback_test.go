package agent

import (
	"testing"
)

func TestParseIntent_Greeting(t *testing.T) {
	for _, in := range []string{"Hello", "hi there", "Good morning!"} {
		intent, reply := ParseIntent(in)
		if intent != nil {
			t.Errorf("%q: expected no intent, got %q", in, intent.Tool)
		}
		if reply != greetingReply {
			t.Errorf("%q: expected greeting reply", in)
		}
	}
}

func TestParseIntent_Help(t *testing.T) {
	intent, reply := ParseIntent("can you help me?")
	if intent != nil {
		t.Fatalf("expected no intent, got %q", intent.Tool)
	}
	if reply != helpReply {
		t.Error("expected help reply")
	}
}

func TestParseIntent_AddTask(t *testing.T) {
	cases := []struct {
		in    string
		title string
	}{
		{"add task buy groceries", "Buy Groceries"},
		{"Add a task: call mom", "Call Mom"},
		{"create task finish report", "Finish Report"},
		{"new task: water plants", "Water Plants"},
		{"add: read a book", "Read A Book"},
	}
	for _, tc := range cases {
		intent, reply := ParseIntent(tc.in)
		if intent == nil || intent.Tool != "add_task" {
			t.Errorf("%q: expected add_task intent, got %+v", tc.in, intent)
			continue
		}
		if intent.Args["title"] != tc.title {
			t.Errorf("%q: title = %q, want %q", tc.in, intent.Args["title"], tc.title)
		}
		if reply != "I'll add that task for you!" {
			t.Errorf("%q: unexpected reply %q", tc.in, reply)
		}
	}
}

func TestParseIntent_AddBeatsList(t *testing.T) {
	// "tasks" appears in the text, but the add matcher must win: the title
	// keeps the whole phrase with the leading "to " stripped.
	intent, _ := ParseIntent("add task to list my pending items")
	if intent == nil || intent.Tool != "add_task" {
		t.Fatalf("expected add_task, got %+v", intent)
	}
	if intent.Args["title"] != "List My Pending Items" {
		t.Errorf("title = %q", intent.Args["title"])
	}
}

func TestParseIntent_ListTasks(t *testing.T) {
	cases := []struct {
		in     string
		status string
	}{
		{"show my tasks", "all"},
		{"list all tasks", "all"},
		{"what tasks do I have", "all"},
		{"show pending tasks", "pending"},
		{"view my active tasks", "pending"},
		{"list completed tasks", "completed"},
		{"show me the tasks I have done", "completed"},
	}
	for _, tc := range cases {
		intent, _ := ParseIntent(tc.in)
		if intent == nil || intent.Tool != "list_tasks" {
			t.Errorf("%q: expected list_tasks, got %+v", tc.in, intent)
			continue
		}
		if intent.Args["status"] != tc.status {
			t.Errorf("%q: status = %q, want %q", tc.in, intent.Args["status"], tc.status)
		}
	}
}

func TestParseIntent_CompleteTask(t *testing.T) {
	cases := []struct {
		in string
		id int64
	}{
		{"complete task 3", 3},
		{"mark task 12 as done", 12},
		{"I finished task #5", 5},
		{"task 7 is done", 7},
		{"complete 2", 2},
	}
	for _, tc := range cases {
		intent, _ := ParseIntent(tc.in)
		if intent == nil || intent.Tool != "complete_task" {
			t.Errorf("%q: expected complete_task, got %+v", tc.in, intent)
			continue
		}
		if intent.Args["task_id"] != tc.id {
			t.Errorf("%q: task_id = %v, want %d", tc.in, intent.Args["task_id"], tc.id)
		}
	}
}

func TestParseIntent_DeleteTask(t *testing.T) {
	cases := []struct {
		in string
		id int64
	}{
		{"delete task 4", 4},
		{"remove task #9", 9},
		{"please cancel task 1", 1},
		{"remove 6", 6},
	}
	for _, tc := range cases {
		intent, _ := ParseIntent(tc.in)
		if intent == nil || intent.Tool != "delete_task" {
			t.Errorf("%q: expected delete_task, got %+v", tc.in, intent)
			continue
		}
		if intent.Args["task_id"] != tc.id {
			t.Errorf("%q: task_id = %v, want %d", tc.in, intent.Args["task_id"], tc.id)
		}
	}
}

func TestParseIntent_UpdateTask(t *testing.T) {
	intent, _ := ParseIntent("rename task 2 to buy oat milk")
	if intent == nil || intent.Tool != "update_task" {
		t.Fatalf("expected update_task, got %+v", intent)
	}
	if intent.Args["task_id"] != int64(2) {
		t.Errorf("task_id = %v", intent.Args["task_id"])
	}
	if intent.Args["title"] != "Buy Oat Milk" {
		t.Errorf("title = %q", intent.Args["title"])
	}
}

func TestParseIntent_Unknown(t *testing.T) {
	intent, reply := ParseIntent("what's the weather like?")
	if intent != nil {
		t.Fatalf("expected no intent, got %q", intent.Tool)
	}
	if reply != unknownReply {
		t.Error("expected unknown reply")
	}
}
