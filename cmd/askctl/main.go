// cmd/askctl/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jinxian630/Assigment-MiniProject/types"
)

func main() {
	base := flag.String("base", "http://localhost:8000", "advisor server base URL")
	user := flag.String("user", "cli", "user id sent with the question")
	tasksFile := flag.String("tasks", "", "optional file with the structured tasks context")
	money := flag.Bool("money", false, "send to /money_advice instead of /chat_rag")
	timeout := flag.Duration("timeout", 120*time.Second, "request timeout")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: askctl [flags] <question>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(*base, *user, *tasksFile, question, *money, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "askctl: %v\n", err)
		os.Exit(1)
	}
}

func run(base, user, tasksFile, question string, money bool, timeout time.Duration) error {
	req := types.ChatRequest{
		Text:   question,
		UserID: user,
	}
	if tasksFile != "" {
		data, err := os.ReadFile(tasksFile)
		if err != nil {
			return fmt.Errorf("read tasks file: %w", err)
		}
		req.TasksContext = string(data)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	endpoint := strings.TrimRight(base, "/") + "/chat_rag"
	if money {
		endpoint = strings.TrimRight(base, "/") + "/money_advice"
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr types.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if money {
		var out types.MoneyAdviceResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		fmt.Println(out.ModelAnswer)
		return nil
	}

	var out types.ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Printf("[%s]\n%s\n", out.Intent, out.ModelAnswer)
	return nil
}
