package model

import "errors"

var (
	// 商品の取得に失敗（通信エラー・パースエラー）
	ErrNetworkFailure = errors.New("network failure")

	// 同じ商品がすでにカートにある（情報通知のみ）
	ErrDuplicateItem = errors.New("duplicate item")

	// 範囲外のインデックスで削除しようとした
	ErrIndexOutOfRange = errors.New("index out of range")
)
