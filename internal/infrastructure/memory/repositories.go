package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository           = (*itemRepo)(nil)
	_ repository.PriceEventRepository     = (*priceRepo)(nil)
	_ repository.LossRecordRepository     = (*lossRepo)(nil)
	_ repository.ConsumeReceiptRepository = (*receiptRepo)(nil)
	_ repository.NotificationRepository   = (*notifRepo)(nil)
)

type itemRepo struct{ s *Store }

func (r *itemRepo) Create(item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *itemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

// GetForUpdate no bloquea nada: el mutex global del store ya serializa.
func (r *itemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *itemRepo) Update(item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return nil
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *itemRepo) ListActiveByUser(userID string) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryItem
	for _, item := range r.s.items {
		if item.UserID == userID && item.IsActive() {
			list = append(list, cloneItem(item))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].ExpiresAt, list[j].ExpiresAt
		switch {
		case a == nil && b == nil:
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *itemRepo) ListActiveExpiringBefore(cutoff time.Time) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryItem
	for _, item := range r.s.items {
		// Corte inclusivo, igual que el adaptador de PostgreSQL.
		if item.IsActive() && item.ExpiresAt != nil && !item.ExpiresAt.After(cutoff) {
			list = append(list, cloneItem(item))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiresAt.Before(*list[j].ExpiresAt) })
	return list, nil
}

type priceRepo struct{ s *Store }

func (r *priceRepo) Append(event *entity.PriceEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextSeq++
	event.Seq = r.s.nextSeq
	r.s.prices[event.ItemID] = append(r.s.prices[event.ItemID], clonePrice(event))
	return nil
}

func (r *priceRepo) Latest(itemID string) (*entity.PriceEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.PriceEvent
	for _, ev := range r.s.prices[itemID] {
		if latest == nil || ev.ObservedAt.After(latest.ObservedAt) ||
			(ev.ObservedAt.Equal(latest.ObservedAt) && ev.Seq > latest.Seq) {
			latest = ev
		}
	}
	if latest == nil {
		return nil, nil
	}
	return clonePrice(latest), nil
}

func (r *priceRepo) ListByItem(itemID string) ([]*entity.PriceEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.PriceEvent, 0, len(r.s.prices[itemID]))
	for _, ev := range r.s.prices[itemID] {
		list = append(list, clonePrice(ev))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ObservedAt.Equal(list[j].ObservedAt) {
			return list[i].ObservedAt.Before(list[j].ObservedAt)
		}
		return list[i].Seq < list[j].Seq
	})
	return list, nil
}

type lossRepo struct{ s *Store }

func (r *lossRepo) Create(record *entity.LossRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.losses = append(r.s.losses, cloneLoss(record))
	return nil
}

func (r *lossRepo) ListByUser(userID string, from, to *time.Time) ([]*entity.LossRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.LossRecord
	for _, rec := range r.s.losses {
		if rec.UserID != userID {
			continue
		}
		if from != nil && rec.OccurredAt.Before(*from) {
			continue
		}
		if to != nil && rec.OccurredAt.After(*to) {
			continue
		}
		list = append(list, cloneLoss(rec))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OccurredAt.After(list[j].OccurredAt) })
	return list, nil
}

type receiptRepo struct{ s *Store }

func (r *receiptRepo) Claim(receipt *entity.ConsumeReceipt) (bool, *entity.ConsumeReceipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.receipts[receipt.Key]; ok {
		return false, cloneReceipt(existing), nil
	}
	r.s.receipts[receipt.Key] = cloneReceipt(receipt)
	return true, nil, nil
}

func (r *receiptRepo) Get(key string) (*entity.ConsumeReceipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.receipts[key]
	if !ok {
		return nil, nil
	}
	return cloneReceipt(rec), nil
}

func (r *receiptRepo) PurgeBefore(cutoff time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for key, rec := range r.s.receipts {
		if rec.CreatedAt.Before(cutoff) {
			delete(r.s.receipts, key)
			n++
		}
	}
	return n, nil
}

type notifRepo struct{ s *Store }

func (r *notifRepo) Create(n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifs[n.ID] = cloneNotif(n)
	r.s.notifsOrder = append(r.s.notifsOrder, n.ID)
	return nil
}

func (r *notifRepo) GetByID(id string) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifs[id]
	if !ok {
		return nil, nil
	}
	return cloneNotif(n), nil
}

func (r *notifRepo) Update(n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notifs[n.ID]; !ok {
		return nil
	}
	r.s.notifs[n.ID] = cloneNotif(n)
	return nil
}

func (r *notifRepo) ListActiveByUser(userID string) ([]*entity.Notification, error) {
	return r.listActive(func(n *entity.Notification) bool { return n.UserID == userID })
}

func (r *notifRepo) ListActiveByItem(itemID string) ([]*entity.Notification, error) {
	return r.listActive(func(n *entity.Notification) bool { return n.ItemID == itemID })
}

func (r *notifRepo) ListActive() ([]*entity.Notification, error) {
	return r.listActive(func(*entity.Notification) bool { return true })
}

func (r *notifRepo) listActive(match func(*entity.Notification) bool) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Notification
	for _, id := range r.s.notifsOrder {
		n, ok := r.s.notifs[id]
		if ok && n.IsActive() && match(n) {
			list = append(list, cloneNotif(n))
		}
	}
	return list, nil
}

func (r *notifRepo) CountActiveByLevel(userID string) (repository.LevelCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var counts repository.LevelCounts
	for _, n := range r.s.notifs {
		if n.UserID != userID || !n.IsActive() {
			continue
		}
		switch n.Level {
		case entity.NotificationLevelCritical:
			counts.Critical++
		case entity.NotificationLevelWarning:
			counts.Warning++
		case entity.NotificationLevelInfo:
			counts.Info++
		}
	}
	return counts, nil
}

func (r *notifRepo) ResolveAllActive(userID string, resolvedAt time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, notif := range r.s.notifs {
		if notif.UserID == userID && notif.IsActive() {
			notif.Status = entity.NotificationStatusResolved
			t := resolvedAt
			notif.ResolvedAt = &t
			n++
		}
	}
	return n, nil
}

func (r *notifRepo) PurgeResolvedBefore(cutoff time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, notif := range r.s.notifs {
		if notif.Status == entity.NotificationStatusResolved &&
			notif.ResolvedAt != nil && notif.ResolvedAt.Before(cutoff) {
			delete(r.s.notifs, id)
			n++
		}
	}
	if n > 0 {
		kept := r.s.notifsOrder[:0]
		for _, id := range r.s.notifsOrder {
			if _, ok := r.s.notifs[id]; ok {
				kept = append(kept, id)
			}
		}
		r.s.notifsOrder = kept
	}
	return n, nil
}
