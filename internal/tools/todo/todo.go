// Package todo exposes Microsoft To Do task lists and tasks as assistant
// capabilities through the Microsoft Graph API.
package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/gina-ai/gina/internal/ai/tools"
)

const categoryTasks = "tasks"

// Client is a thin wrapper over the Microsoft Graph To Do endpoints.
// Authentication is external: the caller supplies a ready access token.
type Client struct {
	log         *slog.Logger
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

type Options struct {
	Log         *slog.Logger
	Endpoint    string
	AccessToken string
	HTTPClient  *http.Client
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.AccessToken) == "" {
		return nil, errors.New("missing graph access token")
	}
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		endpoint = "https://graph.microsoft.com/v1.0"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		log:         opts.Log,
		endpoint:    endpoint,
		accessToken: strings.TrimSpace(opts.AccessToken),
		httpClient:  httpClient,
	}, nil
}

func (c *Client) get(ctx context.Context, path string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.StatusCode >= 400 {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		return gjson.Result{}, fmt.Errorf("graph api GET %s: %s", path, msg)
	}

	if c.log != nil {
		c.log.Debug("graph api call", "path", path, "status", resp.StatusCode)
	}
	return gjson.ParseBytes(raw), nil
}

// GetTaskLists returns the user's task lists as a name-to-id map, so a
// follow-up get_tasks call can address a list by id.
func (c *Client) GetTaskLists(ctx context.Context, args map[string]any) (any, error) {
	res, err := c.get(ctx, "/me/todo/lists")
	if err != nil {
		return nil, err
	}
	lists := res.Get("value").Array()
	if len(lists) == 0 {
		return "No task lists found.", nil
	}
	out := make(map[string]string, len(lists))
	for _, list := range lists {
		name := list.Get("displayName").String()
		if name == "" {
			continue
		}
		out[name] = list.Get("id").String()
	}
	return out, nil
}

// GetTasks lists the open and completed tasks in one list.
func (c *Client) GetTasks(ctx context.Context, args map[string]any) (any, error) {
	listID := strings.TrimSpace(stringArg(args, "list_id"))
	if listID == "" {
		return nil, errors.New("list_id is required")
	}
	res, err := c.get(ctx, "/me/todo/lists/"+url.PathEscape(listID)+"/tasks")
	if err != nil {
		return nil, err
	}
	items := res.Get("value").Array()
	if len(items) == 0 {
		return "No tasks in this list.", nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		task := map[string]any{
			"id":     item.Get("id").String(),
			"title":  item.Get("title").String(),
			"status": item.Get("status").String(),
		}
		if due := item.Get("dueDateTime.dateTime").String(); due != "" {
			task["due"] = due
		}
		if importance := item.Get("importance").String(); importance != "" && importance != "normal" {
			task["importance"] = importance
		}
		out = append(out, task)
	}
	return out, nil
}

// GetTasksWithName resolves a list by its display name, case-insensitively,
// and returns that list's tasks.
func (c *Client) GetTasksWithName(ctx context.Context, args map[string]any) (any, error) {
	listName := stringArg(args, "list_name")
	if listName == "" {
		return nil, errors.New("list_name is required")
	}
	res, err := c.get(ctx, "/me/todo/lists")
	if err != nil {
		return nil, err
	}
	for _, list := range res.Get("value").Array() {
		if strings.EqualFold(strings.TrimSpace(list.Get("displayName").String()), listName) {
			return c.GetTasks(ctx, map[string]any{"list_id": list.Get("id").String()})
		}
	}
	return nil, fmt.Errorf("no task list named %q", listName)
}

// Source exposes the client's operations as assistant capabilities.
func (c *Client) Source() tools.Source {
	return tools.SourceFunc{ID: "todo", Load: func() ([]tools.Capability, error) {
		return []tools.Capability{
			{
				Schema: tools.Schema{
					Name:        "get_task_lists",
					Description: "Get the user's Microsoft To Do task lists as a map from list name to list id.",
					Category:    categoryTasks,
					Parameters: map[string]any{
						"type":       "object",
						"properties": map[string]any{},
					},
				},
				Invoke: c.GetTaskLists,
			},
			{
				Schema: tools.Schema{
					Name:        "get_tasks",
					Description: "Get the tasks in one Microsoft To Do list by its list id.",
					Category:    categoryTasks,
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"list_id": map[string]any{"type": "string", "description": "The task list id, as returned by get_task_lists."},
						},
						"required": []string{"list_id"},
					},
				},
				Invoke: c.GetTasks,
			},
			{
				Schema: tools.Schema{
					Name:        "get_tasks_with_name",
					Description: "Get the tasks in one Microsoft To Do list by its display name instead of its id.",
					Category:    categoryTasks,
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"list_name": map[string]any{"type": "string", "description": "The task list's display name, matched case-insensitively."},
						},
						"required": []string{"list_name"},
					},
				},
				Invoke: c.GetTasksWithName,
			},
		}, nil
	}}
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}
