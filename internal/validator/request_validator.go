package validator

import (
	"errors"
	"strconv"
	"strings"

	"eshop/internal/domain/model"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

// カート行の位置（0以上の整数）を検証
func ParseIndex(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidInput
	}

	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, ErrInvalidInput
	}
	return i, nil
}

// 遷移先ページ名を検証。大文字小文字と前後の空白は無視する
func ParsePage(raw string) (model.Page, error) {
	p := model.Page(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return "", ErrInvalidInput
	}
	return p, nil
}
