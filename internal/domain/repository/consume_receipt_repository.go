package repository

import (
	"time"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
)

// ConsumeReceiptRepository define el puerto de claves de idempotencia del
// consumo. El primer escritor que reclama una clave aplica la mutación; los
// reintentos leen el recibo ya confirmado.
type ConsumeReceiptRepository interface {
	// Claim intenta reclamar la clave insertando el recibo. Si la clave ya
	// existía devuelve (false, recibo original, nil) sin modificar nada.
	Claim(receipt *entity.ConsumeReceipt) (claimed bool, existing *entity.ConsumeReceipt, err error)
	Get(key string) (*entity.ConsumeReceipt, error)
	// PurgeBefore elimina recibos anteriores a la ventana de retención.
	PurgeBefore(cutoff time.Time) (int, error)
}
