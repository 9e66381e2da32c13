package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// ErrStatus: сервис ответил кодом вне 2xx.
var ErrStatus = errors.New("unexpected status")

const defaultFileName = "image"

// Client: HTTP-клиент сервиса визуального поиска.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент. Таймаут на загрузку не ставится:
// её жизнь ограничивает только контекст вызова.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// detectResponse: ответ POST /upload. Отсутствующее поле boundingBoxes
// даёт пустой результат.
type detectResponse struct {
	BoundingBoxes []entity.DetectionItem `json:"boundingBoxes"`
}

// Detect отправляет изображение полем "file" на /upload.
func (c *Client) Detect(ctx context.Context, image entity.Image) (*entity.DetectionResult, error) {
	body, contentType, err := multipartBody(image)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var resp detectResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	return &entity.DetectionResult{Items: resp.BoundingBoxes}, nil
}

// Similar запрашивает GET /{id} и возвращает id похожих товаров.
func (c *Client) Similar(ctx context.Context, itemID string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(itemID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var ids []string
	if err := c.do(req, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func multipartBody(image entity.Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := image.Name
	if name == "" {
		name = defaultFileName
	}
	ct := image.ContentType
	if ct == "" {
		ct = http.DetectContentType(image.Data)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var _ port.Recognizer = (*Client)(nil)
