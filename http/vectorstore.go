package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fwojciec/docsync"
)

// DefaultOpenAIBaseURL is the OpenAI API endpoint.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// Ensure VectorStoreClient implements docsync.IndexStore and
// docsync.IndexProvisioner at compile time.
var (
	_ docsync.IndexStore       = (*VectorStoreClient)(nil)
	_ docsync.IndexProvisioner = (*VectorStoreClient)(nil)
)

// VectorStoreClient implements docsync.IndexStore against the OpenAI
// Files and Vector Stores APIs. Upload creates a file with purpose
// "assistants" and attaches it to the configured vector store; Delete
// detaches and deletes it. The file ID serves as the remote ID.
type VectorStoreClient struct {
	client        *http.Client
	baseURL       string
	apiKey        string
	vectorStoreID string
}

// VectorStoreOption configures a VectorStoreClient.
type VectorStoreOption func(*VectorStoreClient)

// WithVectorStoreHTTPClient sets the underlying HTTP client.
func WithVectorStoreHTTPClient(client *http.Client) VectorStoreOption {
	return func(c *VectorStoreClient) {
		c.client = client
	}
}

// WithVectorStoreBaseURL overrides the API endpoint, mainly for tests.
func WithVectorStoreBaseURL(baseURL string) VectorStoreOption {
	return func(c *VectorStoreClient) {
		c.baseURL = baseURL
	}
}

// NewVectorStoreClient creates a client for the given vector store.
func NewVectorStoreClient(apiKey, vectorStoreID string, opts ...VectorStoreOption) *VectorStoreClient {
	c := &VectorStoreClient{
		baseURL:       DefaultOpenAIBaseURL,
		apiKey:        apiKey,
		vectorStoreID: vectorStoreID,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 60 * time.Second}
	}
	return c
}

// Upload stores the document body as an assistants file and attaches
// it to the vector store. Returns the assigned file ID.
func (c *VectorStoreClient) Upload(ctx context.Context, key string, body []byte) (string, error) {
	fileID, err := c.createFile(ctx, key, body)
	if err != nil {
		return "", err
	}

	if err := c.attachFile(ctx, fileID); err != nil {
		return "", err
	}

	return fileID, nil
}

// Delete detaches the file from the vector store and deletes the
// underlying file object. An already-absent file maps to ENOTFOUND.
func (c *VectorStoreClient) Delete(ctx context.Context, remoteID string) error {
	if remoteID == "" {
		return docsync.Errorf(docsync.EINVALID, "remote ID required")
	}

	// Detach first so the store stops serving the content, then
	// delete the file object itself.
	detachURL := fmt.Sprintf("%s/vector_stores/%s/files/%s", c.baseURL, c.vectorStoreID, remoteID)
	if err := c.doJSON(ctx, http.MethodDelete, detachURL, nil, nil); err != nil {
		if docsync.ErrorCode(err) != docsync.ENOTFOUND {
			return err
		}
	}

	fileURL := fmt.Sprintf("%s/files/%s", c.baseURL, remoteID)
	if err := c.doJSON(ctx, http.MethodDelete, fileURL, nil, nil); err != nil {
		return err
	}

	return nil
}

// CreateIndex creates a vector store with a static chunking strategy
// and returns its ID. The client's configured vector store ID is not
// used; this provisions the store that future clients will point at.
func (c *VectorStoreClient) CreateIndex(ctx context.Context, name string, chunkSize, chunkOverlap int) (string, error) {
	if name == "" {
		return "", docsync.Errorf(docsync.EINVALID, "vector store name required")
	}
	if err := docsync.ValidateChunking(chunkSize, chunkOverlap); err != nil {
		return "", err
	}

	payload := map[string]any{
		"name": name,
		"chunking_strategy": map[string]any{
			"type":                  "static",
			"max_chunk_size_tokens": chunkSize,
			"chunk_overlap_tokens":  chunkOverlap,
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/vector_stores", payload, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", docsync.Errorf(docsync.EINTERNAL, "vector stores API returned no store ID")
	}

	return created.ID, nil
}

// createFile uploads body via the multipart files endpoint.
func (c *VectorStoreClient) createFile(ctx context.Context, key string, body []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("purpose", "assistants"); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", key)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(body); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", docsync.Errorf(docsync.EUNAVAILABLE, "file upload failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, "files API")
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", docsync.Errorf(docsync.EINTERNAL, "decoding file response: %v", err)
	}
	if created.ID == "" {
		return "", docsync.Errorf(docsync.EINTERNAL, "files API returned no file ID")
	}

	return created.ID, nil
}

// attachFile adds the uploaded file to the vector store.
func (c *VectorStoreClient) attachFile(ctx context.Context, fileID string) error {
	attachURL := fmt.Sprintf("%s/vector_stores/%s/files", c.baseURL, c.vectorStoreID)
	payload := map[string]string{"file_id": fileID}
	return c.doJSON(ctx, http.MethodPost, attachURL, payload, nil)
}

// doJSON performs a JSON request and optionally decodes the response
// into out.
func (c *VectorStoreClient) doJSON(ctx context.Context, method, url string, payload, out any) error {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return docsync.Errorf(docsync.EUNAVAILABLE, "vector store request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, "vector store API")
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return docsync.Errorf(docsync.EINTERNAL, "decoding vector store response: %v", err)
		}
	}

	return nil
}
