package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

type authResponse struct {
	Token string `json:"token"`
}

func main() {
	global := flag.NewFlagSet("storesearch", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "app":
		handleApp(ctx, client, *baseURL, *tokenPath, args[1:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "register", "login":
		fs := flag.NewFlagSet("auth "+sub, flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *password == "" {
			log.Fatal("username and password are required")
		}

		payload := map[string]string{"username": *username, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/"+sub, "", payload, &resp); err != nil {
			log.Fatalf("%s failed: %v", sub, err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("logged in")
	case "logout":
		if err := os.Remove(tokenPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	default:
		log.Fatal("usage: storesearch auth <register|login|logout>")
	}
}

func handleApp(ctx context.Context, client *http.Client, baseURL, tokenPath string, args []string) {
	fs := flag.NewFlagSet("app", flag.ExitOnError)
	platform := fs.String("platform", "", "platform id (ios or android)")
	id := fs.String("id", "", "store-specific app id")
	country := fs.String("country", "", "primary country code")
	lang := fs.String("lang", "", "language code")
	fallbacks := fs.String("fallbacks", "", "comma separated fallback country codes")
	_ = fs.Parse(args)

	if *platform == "" || *id == "" {
		log.Fatal("platform and id are required")
	}

	token, err := loadToken(tokenPath)
	if err != nil {
		log.Fatalf("load token (run `storesearch auth login` first): %v", err)
	}

	q := url.Values{}
	q.Set("id", *id)
	if *country != "" {
		q.Set("country", *country)
	}
	if *lang != "" {
		q.Set("lang", *lang)
	}
	if *fallbacks != "" {
		q.Set("fallback_countries", *fallbacks)
	}

	var resp map[string]any
	u := baseURL + "/api/v1/apps/" + url.PathEscape(*platform) + "?" + q.Encode()
	if err := doJSON(ctx, client, http.MethodGet, u, token, nil, &resp); err != nil {
		log.Fatalf("lookup failed: %v", err)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Fatalf("render response: %v", err)
	}
	fmt.Println(string(out))
}

func doJSON(ctx context.Context, client *http.Client, method, url, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".storesearch", "token")
}

func saveToken(path, token string) error {
	if token == "" {
		return fmt.Errorf("empty token in response")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func loadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func printUsage() {
	fmt.Println(`usage: storesearch [-api URL] [-token PATH] <command>

commands:
  auth register -username U -password P
  auth login    -username U -password P
  auth logout
  app -platform <ios|android> -id ID [-country CC] [-lang LC] [-fallbacks CC,CC]`)
}
