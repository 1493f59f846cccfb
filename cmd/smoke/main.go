package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todo_api/internal/auth"
	"todo_api/internal/config"
	"todo_api/internal/logger"

	"github.com/gorilla/websocket"
)

type todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UpdatedAt string `json:"updatedAt"`
}

type client struct {
	base  string
	token string
	http  *http.Client
}

func (c *client) do(method, path string, body any, out any) int {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		logger.Fatal("request failed", "method", method, "path", path, "error", err)
	}
	defer res.Body.Close()

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			logger.Fatal("decode response", "path", path, "status", res.StatusCode, "error", err)
		}
	}
	return res.StatusCode
}

func expect(step string, got, want int) {
	if got != want {
		logger.Fatal("unexpected status", "step", step, "got", got, "want", want)
	}
	logger.Info("ok", "step", step, "status", got)
}

func main() {
	base := flag.String("base", "http://127.0.0.1:8080", "server base url")
	flag.Parse()

	c := &client{base: strings.TrimRight(*base, "/"), http: &http.Client{Timeout: 10 * time.Second}}
	if secret := config.JWTSecret(); secret != "" {
		tok, err := auth.NewIssuer(secret).Generate("smoke")
		if err != nil {
			logger.Fatal("gen token", "error", err)
		}
		c.token = tok
	}

	wsURL := "ws" + strings.TrimPrefix(c.base, "http") + "/todos/events"
	feed, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		logger.Fatal("dial events feed", "error", err)
	}
	defer feed.Close()

	var created todo
	expect("create", c.do(http.MethodPost, "/todos", map[string]any{"title": "buy milk"}, &created), http.StatusCreated)
	if created.ID == "" || created.Completed {
		logger.Fatal("unexpected created todo", "todo", created)
	}

	var list []todo
	expect("list", c.do(http.MethodGet, "/todos?q=milk", nil, &list), http.StatusOK)
	found := false
	for _, t := range list {
		found = found || t.ID == created.ID
	}
	if !found {
		logger.Fatal("created todo missing from list")
	}

	var updated todo
	expect("update", c.do(http.MethodPut, "/todos/"+created.ID, map[string]any{"completed": true}, &updated), http.StatusOK)
	if !updated.Completed || updated.UpdatedAt <= created.UpdatedAt {
		logger.Fatal("update did not apply", "todo", updated)
	}

	expect("delete", c.do(http.MethodDelete, "/todos/"+created.ID, nil, nil), http.StatusOK)
	expect("get deleted", c.do(http.MethodGet, "/todos/"+created.ID, nil, nil), http.StatusNotFound)

	// read events
	for _, want := range []string{"todo.created", "todo.updated", "todo.deleted"} {
		_ = feed.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := feed.ReadMessage()
		if err != nil {
			logger.Fatal("events feed read", "want", want, "error", err)
		}
		var ev map[string]any
		_ = json.Unmarshal(msg, &ev)
		if ev["type"] != want || ev["todoId"] != created.ID {
			logger.Fatal("unexpected event", "want", want, "got", string(msg))
		}
		logger.Info("event", "type", want)
	}

	fmt.Println("smoke test finished")
}
