package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxModuleWords is the longest source text the backend turns into a module.
const maxModuleWords = 1000

// ListModules returns every stored module.
func (c *Client) ListModules(ctx context.Context) ([]Module, error) {
	var out []Module
	if err := c.doJSON(ctx, http.MethodGet, "/modules", nil, &out); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return out, nil
}

// GetModule returns one module by id.
func (c *Client) GetModule(ctx context.Context, id string) (*Module, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("get module: empty id")
	}
	var out Module
	if err := c.doJSON(ctx, http.MethodGet, "/modules/"+escape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get module %s: %w", id, err)
	}
	return &out, nil
}

// DeleteModule removes a module.
func (c *Client) DeleteModule(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("delete module: empty id")
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/modules/"+escape(id), nil, nil); err != nil {
		return fmt.Errorf("delete module %s: %w", id, err)
	}
	return nil
}

// GenerateModule builds and stores a module from source text of at most
// 1000 words, written in language with the given model.
func (c *Client) GenerateModule(ctx context.Context, text, language, model string) (*Module, error) {
	req := generateModuleRequest{Text: strings.TrimSpace(text), Language: language, ModelName: model}
	if err := validateBody(req); err != nil {
		return nil, err
	}
	if n := len(strings.Fields(req.Text)); n > maxModuleWords {
		return nil, fmt.Errorf("generate module: source text has %d words, limit is %d", n, maxModuleWords)
	}
	var out struct {
		Module Module `json:"module"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/modules/generate", req, &out); err != nil {
		return nil, fmt.Errorf("generate module: %w", err)
	}
	return &out.Module, nil
}

// Export downloads the card deck in the given format. The bytes are
// returned as served.
func (c *Client) Export(ctx context.Context, f Format) ([]byte, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodGet, "/export/"+string(f), nil)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", f, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("export %s: read body: %w", f, err)
	}
	return b, nil
}
