package repository

import (
	"context"

	"eshop/internal/domain/model"
)

// セッション状態の保存先。
// 同じセッションへの Update は直列に実行されること。
type SessionRepository interface {
	Create(ctx context.Context, s model.Session) error
	FindByID(ctx context.Context, id string) (model.Session, error)
	// fn は排他の中で呼ばれ、変更後の状態が保存される。
	Update(ctx context.Context, id string, fn func(s *model.Session)) (model.Session, error)
	Delete(ctx context.Context, id string) error
}
