package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"itinerary-route-service/internal/ports"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response is kept for logging.
const maxErrorBody = 2048

func (g *GoogleRoutesProvider) newRequest(
	ctx context.Context,
	url string,
	fieldMask string,
	payload any,
) (*http.Request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)
	// Request only the fields we read.
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	return req, nil
}

// do sends req and turns any status >= 400 into a *ports.ProviderStatusError.
// Retrying is left to the caller.
func (g *GoogleRoutesProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &ports.ProviderStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// postJSON sends payload and decodes the response body into out.
func (g *GoogleRoutesProvider) postJSON(ctx context.Context, url, fieldMask string, payload, out any) error {
	req, err := g.newRequest(ctx, url, fieldMask, payload)
	if err != nil {
		return err
	}

	resp, err := g.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: decode: %v", ports.ErrMalformedResponse, err)
	}
	return nil
}
