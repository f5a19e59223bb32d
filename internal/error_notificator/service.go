package error_notificator

import "context"

type Service struct {
	infra Notificator
}

func NewService(infra Notificator) *Service {
	return &Service{infra: infra}
}

// Notify пропускает алерты без ошибки
func (s *Service) Notify(ctx context.Context, a Alert) error {
	if a.Err == nil {
		return nil
	}
	return s.infra.Notify(ctx, a)
}
