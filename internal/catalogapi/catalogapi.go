// Package catalogapi is the thin client for the external catalog service's
// product administration surface. The only operation the toolset needs is
// bulk deactivation, which the service exposes as a paginated listing plus a
// per-product update call.
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"catalogmerge/internal/httpds"
)

// Product is one catalog product as returned by the listing endpoint.
type Product struct {
	ID     int  `json:"id"`
	Active bool `json:"active"`
}

type page struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

type Client struct {
	HTTP *httpds.Client
	Base string // e.g. https://catalog.example/api
}

// Page fetches one listing page and the service-reported total.
func (c *Client) Page(ctx context.Context, offset, limit int) ([]Product, int, error) {
	url := fmt.Sprintf("%s/products?offset=%d&limit=%d", c.Base, offset, limit)
	resp, err := c.HTTP.Get(ctx, url, requestID())
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("list products: %s", resp.Status)
	}
	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, 0, fmt.Errorf("decode product page: %w", err)
	}
	return p.Items, p.Total, nil
}

// Deactivate marks one product inactive.
func (c *Client) Deactivate(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/products/%d", c.Base, id)
	body := []byte(`{"active":false}`)
	hdr := requestID()
	hdr.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(ctx, http.MethodPut, url, body, hdr)
	if err != nil {
		return fmt.Errorf("deactivate product %d: %w", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("deactivate product %d: %s", id, resp.Status)
	}
	return nil
}

// DeactivateAll walks every listing page and deactivates the active
// products. A failed page fetch aborts; a failed per-product update is
// reported through onErr and the walk continues. Returns the number of
// products deactivated.
func (c *Client) DeactivateAll(ctx context.Context, pageSize int, onErr func(id int, err error)) (int, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	done := 0
	for offset := 0; ; offset += pageSize {
		items, total, err := c.Page(ctx, offset, pageSize)
		if err != nil {
			return done, err
		}
		if len(items) == 0 {
			return done, nil
		}
		for _, p := range items {
			if !p.Active {
				continue
			}
			if err := c.Deactivate(ctx, p.ID); err != nil {
				if onErr != nil {
					onErr(p.ID, err)
				}
				continue
			}
			done++
		}
		if offset+len(items) >= total {
			return done, nil
		}
	}
}

func requestID() http.Header {
	return http.Header{"X-Request-Id": {uuid.NewString()}}
}
