// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Sirve para pruebas y para correr el motor sin PostgreSQL.
package memory

import (
	"sync"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

// Store guarda todo el estado bajo un único mutex. Los repos devuelven y
// almacenan copias, de modo que mutar una entidad fuera del store no tiene
// efecto hasta el Update correspondiente.
type Store struct {
	mu          sync.Mutex
	items       map[string]*entity.InventoryItem
	prices      map[string][]*entity.PriceEvent // por itemID, en orden de inserción
	losses      []*entity.LossRecord
	receipts    map[string]*entity.ConsumeReceipt
	notifs      map[string]*entity.Notification
	nextSeq     int64
	notifsOrder []string // IDs en orden de creación
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		items:    make(map[string]*entity.InventoryItem),
		prices:   make(map[string][]*entity.PriceEvent),
		receipts: make(map[string]*entity.ConsumeReceipt),
		notifs:   make(map[string]*entity.Notification),
	}
}

// Items devuelve el repositorio de artículos sobre este store.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s: s} }

// Prices devuelve el ledger de precios sobre este store.
func (s *Store) Prices() repository.PriceEventRepository { return &priceRepo{s: s} }

// Losses devuelve el repositorio de pérdidas sobre este store.
func (s *Store) Losses() repository.LossRecordRepository { return &lossRepo{s: s} }

// Receipts devuelve el repositorio de recibos de consumo sobre este store.
func (s *Store) Receipts() repository.ConsumeReceiptRepository { return &receiptRepo{s: s} }

// Notifications devuelve el repositorio de notificaciones sobre este store.
func (s *Store) Notifications() repository.NotificationRepository { return &notifRepo{s: s} }

func cloneItem(i *entity.InventoryItem) *entity.InventoryItem {
	c := *i
	if i.ExpiresAt != nil {
		t := *i.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}

func clonePrice(e *entity.PriceEvent) *entity.PriceEvent {
	c := *e
	return &c
}

func cloneLoss(r *entity.LossRecord) *entity.LossRecord {
	c := *r
	return &c
}

func cloneReceipt(r *entity.ConsumeReceipt) *entity.ConsumeReceipt {
	c := *r
	if r.UsedValue != nil {
		v := *r.UsedValue
		c.UsedValue = &v
	}
	return &c
}

func cloneNotif(n *entity.Notification) *entity.Notification {
	c := *n
	if n.ResolvedAt != nil {
		t := *n.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}
