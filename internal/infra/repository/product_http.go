package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"eshop/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 外部の商品API（fakestoreapi互換）から商品を取得する。
type ProductHTTPRepository struct {
	baseURL string
	client  *http.Client
}

// DI
func NewProductHTTPRepository(baseURL string, client *http.Client) *ProductHTTPRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProductHTTPRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// APIのレスポンス
type productDTO struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int64   `json:"count"`
	} `json:"rating"`
}

// GET /products/{id}
// 失敗はすべて ErrNetworkFailure でラップして返す（リトライしない）。
func (r *ProductHTTPRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	url := r.baseURL + "/products/" + strconv.FormatInt(id, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Product{}, fmt.Errorf("build request: %w: %w", model.ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return model.Product{}, fmt.Errorf("get %s: %w: %w", url, model.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.Product{}, fmt.Errorf("get %s: status %d: %w", url, resp.StatusCode, model.ErrNetworkFailure)
	}

	var dto productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		// 存在しないIDだと空ボディが返る
		if errors.Is(err, io.EOF) {
			return model.Product{}, fmt.Errorf("get %s: empty body: %w", url, model.ErrNetworkFailure)
		}
		return model.Product{}, fmt.Errorf("decode product: %w: %w", model.ErrNetworkFailure, err)
	}
	if dto.ID <= 0 {
		return model.Product{}, fmt.Errorf("decode product: missing id: %w", model.ErrNetworkFailure)
	}
	if dto.Price.IsNegative() {
		return model.Product{}, fmt.Errorf("decode product: negative price: %w", model.ErrNetworkFailure)
	}

	return model.Product{
		ID:          dto.ID,
		Title:       dto.Title,
		Price:       dto.Price,
		Image:       dto.Image,
		Description: dto.Description,
		Category:    dto.Category,
		Rating: model.Rating{
			Rate:  dto.Rating.Rate,
			Count: dto.Rating.Count,
		},
	}, nil
}
