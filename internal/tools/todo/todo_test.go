package todo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Options{
		Endpoint:    server.URL,
		AccessToken: "test-token",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestGetTaskLists_MapsNameToID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}
		if r.URL.Path != "/me/todo/lists" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"value":[
			{"id":"list-1","displayName":"Tasks"},
			{"id":"list-2","displayName":"Groceries"}
		]}`))
	}))

	out, err := client.GetTaskLists(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetTaskLists: %v", err)
	}
	want := map[string]string{"Tasks": "list-1", "Groceries": "list-2"}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("lists = %v, want %v", out, want)
	}
}

func TestGetTasks_RequiresListID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	}))

	if _, err := client.GetTasks(context.Background(), nil); err == nil {
		t.Fatal("missing list_id accepted")
	}
}

func TestGetTasks_ListsTasks(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/todo/lists/list-1/tasks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"value":[
			{"id":"t1","title":"Buy milk","status":"notStarted","importance":"high",
			 "dueDateTime":{"dateTime":"2026-09-01T08:00:00.0000000"}},
			{"id":"t2","title":"Water plants","status":"completed","importance":"normal"}
		]}`))
	}))

	out, err := client.GetTasks(context.Background(), map[string]any{"list_id": "list-1"})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	tasks, ok := out.([]map[string]any)
	if !ok {
		t.Fatalf("result type = %T", out)
	}
	if len(tasks) != 2 {
		t.Fatalf("task count = %d", len(tasks))
	}
	if tasks[0]["title"] != "Buy milk" || tasks[0]["importance"] != "high" {
		t.Fatalf("first task = %v", tasks[0])
	}
	if tasks[0]["due"] != "2026-09-01T08:00:00.0000000" {
		t.Fatalf("due = %v", tasks[0]["due"])
	}
	if _, hasImportance := tasks[1]["importance"]; hasImportance {
		t.Fatalf("normal importance should be omitted: %v", tasks[1])
	}
}

func TestGetTasksWithName_ResolvesListByName(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/todo/lists":
			w.Write([]byte(`{"value":[
				{"id":"list-1","displayName":"Tasks"},
				{"id":"list-2","displayName":"Groceries"}
			]}`))
		case "/me/todo/lists/list-2/tasks":
			w.Write([]byte(`{"value":[{"id":"t1","title":"Buy milk","status":"notStarted"}]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))

	// Name matching is case-insensitive.
	out, err := client.GetTasksWithName(context.Background(), map[string]any{"list_name": "groceries"})
	if err != nil {
		t.Fatalf("GetTasksWithName: %v", err)
	}
	tasks, ok := out.([]map[string]any)
	if !ok || len(tasks) != 1 || tasks[0]["title"] != "Buy milk" {
		t.Fatalf("tasks = %v", out)
	}
}

func TestGetTasksWithName_UnknownListIsAnError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"id":"list-1","displayName":"Tasks"}]}`))
	}))

	_, err := client.GetTasksWithName(context.Background(), map[string]any{"list_name": "Errands"})
	if err == nil || !strings.Contains(err.Error(), "Errands") {
		t.Fatalf("err = %v, want unknown-list error naming the list", err)
	}
}

func TestAPIError_SurfacesMessage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"InvalidAuthenticationToken","message":"Access token has expired."}}`))
	}))

	_, err := client.GetTaskLists(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Access token has expired.") {
		t.Fatalf("error = %v", err)
	}
}

func TestSource_ExposesAllCapabilities(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	source := client.Source()
	if source.Name() != "todo" {
		t.Fatalf("source name = %q", source.Name())
	}
	caps, err := source.Capabilities()
	if err != nil {
		t.Fatalf("Capabilities: %v", err)
	}
	if len(caps) != 3 {
		t.Fatalf("capability count = %d", len(caps))
	}
	want := []string{"get_task_lists", "get_tasks", "get_tasks_with_name"}
	for i, name := range want {
		if caps[i].Name() != name {
			t.Fatalf("capability[%d] = %q, want %q", i, caps[i].Name(), name)
		}
	}
}
