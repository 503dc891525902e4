package ports

import (
	"context"

	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios atados a una misma transacción
// (Commit si fn devuelve nil, Rollback en caso contrario). Es el mecanismo que
// serializa las mutaciones por artículo: dentro de fn, ItemRepository.GetForUpdate
// bloquea la fila hasta el final de la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		prices repository.PriceEventRepository,
		losses repository.LossRecordRepository,
		receipts repository.ConsumeReceiptRepository,
		notifs repository.NotificationRepository,
	) error) error
}
