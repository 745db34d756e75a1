package memory

import (
	"sort"

	"stayhub/internal/models"
	"stayhub/internal/repositories"
)

type depositRepo struct {
	r runner
}

func (p *depositRepo) Create(req *models.DepositRequest) error {
	return p.r.run(func(d *data) error {
		d.depositSeq++
		req.ID = d.depositSeq
		req.CreatedAt = now()
		req.UpdatedAt = req.CreatedAt
		d.deposits[req.ID] = *req
		return nil
	})
}

func (p *depositRepo) GetByID(id uint) (*models.DepositRequest, error) {
	var out *models.DepositRequest
	err := p.r.run(func(d *data) error {
		req, ok := d.deposits[id]
		if !ok {
			return repositories.ErrDepositNotFound
		}
		out = &req
		return nil
	})
	return out, err
}

func (p *depositRepo) GetByIDForUpdate(id uint) (*models.DepositRequest, error) {
	return p.GetByID(id)
}

func (p *depositRepo) Update(req *models.DepositRequest) error {
	return p.r.run(func(d *data) error {
		if _, ok := d.deposits[req.ID]; !ok {
			return repositories.ErrDepositNotFound
		}
		req.UpdatedAt = now()
		d.deposits[req.ID] = *req
		return nil
	})
}

func (p *depositRepo) ListByStatus(status string, limit, offset int) ([]models.DepositRequest, int64, error) {
	return p.list(func(r models.DepositRequest) bool { return r.Status == status }, limit, offset)
}

func (p *depositRepo) ListByUser(userID uint, limit, offset int) ([]models.DepositRequest, int64, error) {
	return p.list(func(r models.DepositRequest) bool { return r.UserID == userID }, limit, offset)
}

func (p *depositRepo) list(match func(models.DepositRequest) bool, limit, offset int) ([]models.DepositRequest, int64, error) {
	var out []models.DepositRequest
	var total int64
	err := p.r.run(func(d *data) error {
		var hits []models.DepositRequest
		for _, r := range d.deposits {
			if match(r) {
				hits = append(hits, r)
			}
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].ID > hits[j].ID })
		total = int64(len(hits))
		out = page(hits, limit, offset)
		return nil
	})
	return out, total, err
}

type withdrawalRepo struct {
	r runner
}

func (p *withdrawalRepo) Create(req *models.WithdrawalRequest) error {
	return p.r.run(func(d *data) error {
		d.wdSeq++
		req.ID = d.wdSeq
		req.CreatedAt = now()
		req.UpdatedAt = req.CreatedAt
		d.withdrawals[req.ID] = *req
		return nil
	})
}

func (p *withdrawalRepo) GetByID(id uint) (*models.WithdrawalRequest, error) {
	var out *models.WithdrawalRequest
	err := p.r.run(func(d *data) error {
		req, ok := d.withdrawals[id]
		if !ok {
			return repositories.ErrWithdrawalNotFound
		}
		out = &req
		return nil
	})
	return out, err
}

func (p *withdrawalRepo) GetByIDForUpdate(id uint) (*models.WithdrawalRequest, error) {
	return p.GetByID(id)
}

func (p *withdrawalRepo) Update(req *models.WithdrawalRequest) error {
	return p.r.run(func(d *data) error {
		if _, ok := d.withdrawals[req.ID]; !ok {
			return repositories.ErrWithdrawalNotFound
		}
		req.UpdatedAt = now()
		d.withdrawals[req.ID] = *req
		return nil
	})
}

func (p *withdrawalRepo) ListByStatus(status string, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	return p.list(func(r models.WithdrawalRequest) bool { return r.Status == status }, limit, offset)
}

func (p *withdrawalRepo) ListByUser(userID uint, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	return p.list(func(r models.WithdrawalRequest) bool { return r.UserID == userID }, limit, offset)
}

func (p *withdrawalRepo) list(match func(models.WithdrawalRequest) bool, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	var out []models.WithdrawalRequest
	var total int64
	err := p.r.run(func(d *data) error {
		var hits []models.WithdrawalRequest
		for _, r := range d.withdrawals {
			if match(r) {
				hits = append(hits, r)
			}
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].ID > hits[j].ID })
		total = int64(len(hits))
		out = page(hits, limit, offset)
		return nil
	})
	return out, total, err
}

type promotionRepo struct {
	r runner
}

func (p *promotionRepo) Create(promo *models.PromotionConfig) error {
	return p.r.run(func(d *data) error {
		d.promoSeq++
		promo.ID = d.promoSeq
		promo.CreatedAt = now()
		promo.UpdatedAt = promo.CreatedAt
		d.promotions[promo.ID] = *promo
		return nil
	})
}

func (p *promotionRepo) GetByID(id uint) (*models.PromotionConfig, error) {
	var out *models.PromotionConfig
	err := p.r.run(func(d *data) error {
		promo, ok := d.promotions[id]
		if !ok {
			return repositories.ErrPromotionNotFound
		}
		out = &promo
		return nil
	})
	return out, err
}

func (p *promotionRepo) Update(promo *models.PromotionConfig) error {
	return p.r.run(func(d *data) error {
		if _, ok := d.promotions[promo.ID]; !ok {
			return repositories.ErrPromotionNotFound
		}
		promo.UpdatedAt = now()
		d.promotions[promo.ID] = *promo
		return nil
	})
}

func (p *promotionRepo) ListActive() ([]models.PromotionConfig, error) {
	var out []models.PromotionConfig
	err := p.r.run(func(d *data) error {
		for _, promo := range d.promotions {
			if promo.IsActive {
				out = append(out, promo)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (p *promotionRepo) List(limit, offset int) ([]models.PromotionConfig, int64, error) {
	var out []models.PromotionConfig
	var total int64
	err := p.r.run(func(d *data) error {
		var all []models.PromotionConfig
		for _, promo := range d.promotions {
			all = append(all, promo)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
		total = int64(len(all))
		out = page(all, limit, offset)
		return nil
	})
	return out, total, err
}
