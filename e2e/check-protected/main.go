package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <id-token> [server-addr]", os.Args[0])
	}

	idToken := os.Args[1]
	serverAddr := "http://localhost:8080"
	if len(os.Args) > 2 {
		serverAddr = "http://localhost" + os.Args[2]
	}

	req, err := http.NewRequest(http.MethodGet, serverAddr+"/protected", nil)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}

	req.AddCookie(&http.Cookie{Name: "token", Value: idToken})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Authorization DENIED\n")
		fmt.Printf("Status: %d\n", resp.StatusCode)
		fmt.Printf("Body: %s\n", string(body))
		os.Exit(1)
	}

	var payload struct {
		Message     string `json:"message"`
		PrincipalID string `json:"principalId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Fatalf("Unexpected response body %q: %v", body, err)
	}

	fmt.Println("Authorization ALLOWED")
	fmt.Printf("  Message:   %s\n", payload.Message)
	fmt.Printf("  Principal: %s\n", payload.PrincipalID)
	if id := resp.Header.Get("X-Request-Id"); id != "" {
		fmt.Printf("  Request:   %s\n", id)
	}
}
