// Package gist provides the remote sync client: one JSON backup document
// hosted as a snippet on a gist-style REST service.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ambar/internal/core/apperror"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client talks to the snippet-hosting API. Create and Update need a bearer
// credential; Fetch of a public document does not.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client against baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type fileContent struct {
	Content string `json:"content"`
}

type createRequest struct {
	Description string                 `json:"description"`
	Public      bool                   `json:"public"`
	Files       map[string]fileContent `json:"files"`
}

type updateRequest struct {
	Files map[string]fileContent `json:"files"`
}

type document struct {
	ID      string                 `json:"id"`
	HTMLURL string                 `json:"html_url"`
	Message string                 `json:"message"`
	Files   map[string]fileContent `json:"files"`
}

// Created describes a freshly created remote document.
type Created struct {
	ID  string
	URL string
}

// Create uploads a new public backup document and returns its coordinates.
func (c *Client) Create(ctx context.Context, token, filename string, content []byte) (Created, error) {
	if token == "" {
		return Created{}, apperror.NewRemoteSync("remote credential is not configured")
	}

	body := createRequest{
		Description: fmt.Sprintf("Inventory Backup - %s", time.Now().Format(time.RFC3339)),
		Public:      true,
		Files: map[string]fileContent{
			filename: {Content: string(content)},
		},
	}

	doc, err := c.do(ctx, http.MethodPost, c.baseURL+"/gists", token, body)
	if err != nil {
		return Created{}, err
	}
	return Created{ID: doc.ID, URL: doc.HTMLURL}, nil
}

// Update replaces the backup file inside an existing remote document.
func (c *Client) Update(ctx context.Context, token, gistID, filename string, content []byte) error {
	if token == "" {
		return apperror.NewRemoteSync("remote credential is not configured")
	}
	if gistID == "" {
		return apperror.NewRemoteSync("remote document id is not configured")
	}

	body := updateRequest{
		Files: map[string]fileContent{
			filename: {Content: string(content)},
		},
	}

	_, err := c.do(ctx, http.MethodPatch, c.baseURL+"/gists/"+gistID, token, body)
	return err
}

// Fetch downloads the backup file from a remote document. Public documents
// need no credential.
func (c *Client) Fetch(ctx context.Context, gistID, filename string) ([]byte, error) {
	if gistID == "" {
		return nil, apperror.NewRemoteSync("remote document id is not configured")
	}

	doc, err := c.do(ctx, http.MethodGet, c.baseURL+"/gists/"+gistID, "", nil)
	if err != nil {
		return nil, err
	}

	file, ok := doc.Files[filename]
	if !ok {
		return nil, apperror.NewRemoteSync(fmt.Sprintf("file %q not found in remote document", filename))
	}
	return []byte(file.Content), nil
}

// do issues one API call. Any non-success status surfaces the message from
// the response body and nothing else; local state is never touched here.
func (c *Client) do(ctx context.Context, method, url, token string, body any) (*document, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewRemoteSync("remote service is unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewRemoteSync("failed to read remote response").WithCause(err)
	}

	var doc document
	if len(raw) > 0 {
		// Tolerate an undecodable body; the status check below decides.
		_ = json.Unmarshal(raw, &doc)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := doc.Message
		if message == "" {
			message = fmt.Sprintf("remote service returned status %d", resp.StatusCode)
		}
		return nil, apperror.NewRemoteSync(message).WithDetail("status", resp.StatusCode)
	}

	return &doc, nil
}
