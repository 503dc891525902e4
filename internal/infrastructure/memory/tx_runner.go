package memory

import (
	"context"

	"github.com/jhoicas/nevera-api/internal/application/ports"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner simula transacciones sobre el store: toma una instantánea del
// estado antes de ejecutar fn y la restaura si fn devuelve error, de modo que
// el contrato de rollback se respeta también en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con los repos del store y revierte el estado ante error.
func (r *TxRunner) Run(_ context.Context, fn func(
	items repository.ItemRepository,
	prices repository.PriceEventRepository,
	losses repository.LossRecordRepository,
	receipts repository.ConsumeReceiptRepository,
	notifs repository.NotificationRepository,
) error) error {
	snap := r.snapshot()
	err := fn(
		r.store.Items(),
		r.store.Prices(),
		r.store.Losses(),
		r.store.Receipts(),
		r.store.Notifications(),
	)
	if err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	items       map[string]*entity.InventoryItem
	prices      map[string][]*entity.PriceEvent
	losses      []*entity.LossRecord
	receipts    map[string]*entity.ConsumeReceipt
	notifs      map[string]*entity.Notification
	nextSeq     int64
	notifsOrder []string
}

// snapshot copia los mapas; los valores nunca se mutan en sitio (los repos
// almacenan clones), salvo ResolveAllActive, que por eso clona aquí.
func (r *TxRunner) snapshot() snapshot {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := snapshot{
		items:       make(map[string]*entity.InventoryItem, len(r.store.items)),
		prices:      make(map[string][]*entity.PriceEvent, len(r.store.prices)),
		losses:      append([]*entity.LossRecord(nil), r.store.losses...),
		receipts:    make(map[string]*entity.ConsumeReceipt, len(r.store.receipts)),
		notifs:      make(map[string]*entity.Notification, len(r.store.notifs)),
		nextSeq:     r.store.nextSeq,
		notifsOrder: append([]string(nil), r.store.notifsOrder...),
	}
	for id, item := range r.store.items {
		snap.items[id] = item
	}
	for id, events := range r.store.prices {
		snap.prices[id] = append([]*entity.PriceEvent(nil), events...)
	}
	for key, rec := range r.store.receipts {
		snap.receipts[key] = rec
	}
	for id, n := range r.store.notifs {
		snap.notifs[id] = cloneNotif(n)
	}
	return snap
}

func (r *TxRunner) restore(snap snapshot) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.items = snap.items
	r.store.prices = snap.prices
	r.store.losses = snap.losses
	r.store.receipts = snap.receipts
	r.store.notifs = snap.notifs
	r.store.nextSeq = snap.nextSeq
	r.store.notifsOrder = snap.notifsOrder
}
