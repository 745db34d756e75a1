// Package memory implements repositories.Store against plain maps. It backs
// unit tests so services exercise real repository semantics without a
// database. ExecuteInTransaction clones the dataset and swaps it in only on
// success, mirroring the rollback behavior of the gorm store.
package memory

import (
	"sync"
	"time"

	"stayhub/internal/models"
	"stayhub/internal/repositories"
)

type data struct {
	wallets     map[uint]models.WalletAccount // keyed by user ID
	walletSeq   uint
	txns        []models.WalletTransaction
	txnSeq      uint
	deposits    map[uint]models.DepositRequest
	depositSeq  uint
	withdrawals map[uint]models.WithdrawalRequest
	wdSeq       uint
	promotions  map[uint]models.PromotionConfig
	promoSeq    uint
	bookings    map[uint]models.Booking
	bookingSeq  uint
	lines       map[uint]models.BookingService
	lineSeq     uint
	invoices    map[uint]models.Invoice
	invoiceSeq  uint
}

func newData() *data {
	return &data{
		wallets:     make(map[uint]models.WalletAccount),
		deposits:    make(map[uint]models.DepositRequest),
		withdrawals: make(map[uint]models.WithdrawalRequest),
		promotions:  make(map[uint]models.PromotionConfig),
		bookings:    make(map[uint]models.Booking),
		lines:       make(map[uint]models.BookingService),
		invoices:    make(map[uint]models.Invoice),
	}
}

func (d *data) clone() *data {
	c := newData()
	c.walletSeq, c.txnSeq, c.depositSeq = d.walletSeq, d.txnSeq, d.depositSeq
	c.wdSeq, c.promoSeq, c.bookingSeq = d.wdSeq, d.promoSeq, d.bookingSeq
	c.lineSeq, c.invoiceSeq = d.lineSeq, d.invoiceSeq
	for k, v := range d.wallets {
		c.wallets[k] = v
	}
	c.txns = append([]models.WalletTransaction(nil), d.txns...)
	for k, v := range d.deposits {
		c.deposits[k] = v
	}
	for k, v := range d.withdrawals {
		c.withdrawals[k] = v
	}
	for k, v := range d.promotions {
		c.promotions[k] = v
	}
	for k, v := range d.bookings {
		v.Services = nil
		c.bookings[k] = v
	}
	for k, v := range d.lines {
		c.lines[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	return c
}

type runner interface {
	run(fn func(d *data) error) error
}

// Store is the root in-memory store. All access serializes on one mutex.
type Store struct {
	mu sync.Mutex
	d  *data
}

func NewStore() *Store {
	return &Store{d: newData()}
}

func (s *Store) run(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func (s *Store) Wallets() repositories.WalletRepository         { return &walletRepo{r: s} }
func (s *Store) Deposits() repositories.DepositRepository       { return &depositRepo{r: s} }
func (s *Store) Withdrawals() repositories.WithdrawalRepository { return &withdrawalRepo{r: s} }
func (s *Store) Promotions() repositories.PromotionRepository   { return &promotionRepo{r: s} }
func (s *Store) Bookings() repositories.BookingRepository       { return &bookingRepo{r: s} }
func (s *Store) Invoices() repositories.InvoiceRepository       { return &invoiceRepo{r: s} }

func (s *Store) ExecuteInTransaction(fn func(repositories.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.d.clone()
	if err := fn(&txStore{d: clone}); err != nil {
		return err
	}
	s.d = clone
	return nil
}

// txStore runs inside an ExecuteInTransaction scope; the root mutex is
// already held, so it accesses its cloned dataset directly.
type txStore struct {
	d *data
}

func (t *txStore) run(fn func(d *data) error) error { return fn(t.d) }

func (t *txStore) Wallets() repositories.WalletRepository         { return &walletRepo{r: t} }
func (t *txStore) Deposits() repositories.DepositRepository       { return &depositRepo{r: t} }
func (t *txStore) Withdrawals() repositories.WithdrawalRepository { return &withdrawalRepo{r: t} }
func (t *txStore) Promotions() repositories.PromotionRepository   { return &promotionRepo{r: t} }
func (t *txStore) Bookings() repositories.BookingRepository       { return &bookingRepo{r: t} }
func (t *txStore) Invoices() repositories.InvoiceRepository       { return &invoiceRepo{r: t} }

// Nested transactions join the enclosing scope.
func (t *txStore) ExecuteInTransaction(fn func(repositories.Store) error) error {
	return fn(t)
}

func now() time.Time { return time.Now().UTC() }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[offset:end]...)
}
