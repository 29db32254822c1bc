package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	ServiceCatalog = "catalog"

	uploadField = "image"
)

var _ domain.CatalogGateway = (*catalogHTTPClient)(nil)

type catalogHTTPClient struct {
	*httpTransport
}

// NewCatalogHTTPClient talks to the product store rooted at baseURL
// (the store serves /products and /file-upload).
func NewCatalogHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger, opts ...Option) domain.CatalogGateway {
	return &catalogHTTPClient{
		httpTransport: newTransport(ServiceCatalog, baseURL, timeout, logger, opts),
	}
}

func (c *catalogHTTPClient) List(ctx context.Context) (products []domain.Product, err error) {
	const op = "list products"
	defer c.observe("list", time.Now(), &err)

	resp, err := c.send(ctx, http.MethodGet, "/products", "", nil)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Message: "Failed to fetch products", Err: err}
	}
	if !resp.OK() {
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, "Failed to fetch products")}
	}

	if err := json.Unmarshal(resp.Body, &products); err != nil {
		c.log.Errorf("CatalogClient: Failed to decode product list: %v", err)
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: "Failed to fetch products", Err: err}
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.log.Infof("CatalogClient: Fetched %d products", len(products))
	return products, nil
}

func (c *catalogHTTPClient) Create(ctx context.Context, product domain.Product) (created *domain.Product, err error) {
	defer c.observe("create", time.Now(), &err)
	c.log.Infof("CatalogClient: Creating product %s ('%s')", product.ProductID, product.Title)
	return c.write(ctx, "create product", http.MethodPost, "/products", product, "Failed to save product")
}

func (c *catalogHTTPClient) Update(ctx context.Context, storageID string, product domain.Product) (updated *domain.Product, err error) {
	defer c.observe("update", time.Now(), &err)
	c.log.Infof("CatalogClient: Updating product %s (storage ID %s)", product.ProductID, storageID)
	product.StorageID = storageID
	return c.write(ctx, "update product", http.MethodPut, "/products/"+url.PathEscape(storageID), product, "Failed to update product")
}

// write sends a full product record. 4xx responses are payload rejections.
func (c *catalogHTTPClient) write(ctx context.Context, op, method, path string, product domain.Product, fallback string) (*domain.Product, error) {
	body, err := encodeJSON(product)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Message: fallback, Err: err}
	}

	resp, err := c.send(ctx, method, path, "application/json", body)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Message: fallback, Err: err}
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &domain.ValidationError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, fallback)}
	}
	if !resp.OK() {
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, fallback)}
	}

	var saved domain.Product
	if len(bytes.TrimSpace(resp.Body)) == 0 || json.Unmarshal(resp.Body, &saved) != nil || (saved.StorageID == "" && saved.ProductID == "") {
		c.log.Warnf("CatalogClient: %s succeeded without a product in the response, echoing request", op)
		return &product, nil
	}
	return &saved, nil
}

func (c *catalogHTTPClient) Delete(ctx context.Context, storageID string) (err error) {
	const op = "delete product"
	defer c.observe("delete", time.Now(), &err)

	resp, err := c.send(ctx, http.MethodDelete, "/products/"+url.PathEscape(storageID), "", nil)
	if err != nil {
		return &domain.TransportError{Op: op, Message: "Failed to delete product", Err: err}
	}
	if !resp.OK() {
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, "Failed to delete product")}
	}
	c.log.Infof("CatalogClient: Deleted product with storage ID %s", storageID)
	return nil
}

type uploadResponse struct {
	Success bool   `json:"success"`
	RawURL  string `json:"raw_url"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *catalogHTTPClient) UploadAsset(ctx context.Context, asset domain.Asset) (rawURL string, err error) {
	defer c.observe("upload", time.Now(), &err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, asset.Filename))
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", &domain.UploadError{Message: "Upload failed", Err: err}
	}
	if _, err := io.Copy(part, asset.Body); err != nil {
		return "", &domain.UploadError{Message: "Upload failed", Err: fmt.Errorf("failed to read %s: %w", asset.Filename, err)}
	}
	if err := mw.Close(); err != nil {
		return "", &domain.UploadError{Message: "Upload failed", Err: err}
	}

	c.log.Infof("CatalogClient: Uploading asset '%s' (%d bytes)", asset.Filename, buf.Len())
	resp, err := c.send(ctx, http.MethodPost, "/file-upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", &domain.UploadError{Message: "Upload failed", Err: err}
	}

	var out uploadResponse
	decodeErr := json.Unmarshal(resp.Body, &out)
	if !resp.OK() || decodeErr != nil || !out.Success || out.RawURL == "" {
		msg := out.Error
		if msg == "" {
			msg = out.Message
		}
		if msg == "" {
			msg = "Upload failed"
		}
		c.log.Warnf("CatalogClient: Upload of '%s' rejected (status %d): %s", asset.Filename, resp.StatusCode, msg)
		return "", &domain.UploadError{Message: msg}
	}

	c.log.Infof("CatalogClient: Uploaded asset '%s' to %s", asset.Filename, out.RawURL)
	return out.RawURL, nil
}
