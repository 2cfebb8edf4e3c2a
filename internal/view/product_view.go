package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"eshop/internal/domain/model"
)

const (
	starGlyph = "⭐"
	maxStars  = 5
)

// 商品パネルの表示内容
type ProductView struct {
	ID          int64  `json:"id"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StarCount   int    `json:"star_count"`
	Stars       string `json:"stars"`
	RatingText  string `json:"rating_text"`
}

func RenderProduct(p model.Product) ProductView {
	n := StarCount(p.Rating.Rate)
	return ProductView{
		ID:          p.ID,
		Image:       p.Image,
		Title:       p.Title,
		Price:       model.FormatMoney(p.Price),
		Description: p.Description,
		Category:    strings.ToUpper(p.Category),
		StarCount:   n,
		Stars:       strings.Repeat(starGlyph, n),
		RatingText:  RatingText(p.Rating),
	}
}

// 平均評価を四捨五入して 0〜5 に収める
func StarCount(rate float64) int {
	if math.IsNaN(rate) {
		return 0
	}
	n := int(math.Floor(rate + 0.5))
	if n < 0 {
		return 0
	}
	if n > maxStars {
		return maxStars
	}
	return n
}

// "4.6 (120 reviews)"
func RatingText(r model.Rating) string {
	return fmt.Sprintf("%s (%d reviews)", strconv.FormatFloat(r.Rate, 'f', -1, 64), r.Count)
}
