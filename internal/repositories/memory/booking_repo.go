package memory

import (
	"sort"

	"stayhub/internal/models"
	"stayhub/internal/repositories"
)

type bookingRepo struct {
	r runner
}

func (p *bookingRepo) Create(booking *models.Booking) error {
	return p.r.run(func(d *data) error {
		d.bookingSeq++
		booking.ID = d.bookingSeq
		booking.CreatedAt = now()
		booking.UpdatedAt = booking.CreatedAt
		stored := *booking
		stored.Services = nil
		d.bookings[booking.ID] = stored
		return nil
	})
}

func (p *bookingRepo) GetByID(id uint) (*models.Booking, error) {
	var out *models.Booking
	err := p.r.run(func(d *data) error {
		b, ok := d.bookings[id]
		if !ok {
			return repositories.ErrBookingNotFound
		}
		b.Services = servicesOf(d, id)
		out = &b
		return nil
	})
	return out, err
}

func (p *bookingRepo) GetByIDForUpdate(id uint) (*models.Booking, error) {
	return p.GetByID(id)
}

func (p *bookingRepo) Update(booking *models.Booking) error {
	return p.r.run(func(d *data) error {
		if _, ok := d.bookings[booking.ID]; !ok {
			return repositories.ErrBookingNotFound
		}
		booking.UpdatedAt = now()
		stored := *booking
		stored.Services = nil
		d.bookings[booking.ID] = stored
		return nil
	})
}

func (p *bookingRepo) CreateService(line *models.BookingService) error {
	return p.r.run(func(d *data) error {
		if _, ok := d.bookings[line.BookingID]; !ok {
			return repositories.ErrBookingNotFound
		}
		d.lineSeq++
		line.ID = d.lineSeq
		d.lines[line.ID] = *line
		return nil
	})
}

func (p *bookingRepo) UpdateService(line *models.BookingService) error {
	return p.r.run(func(d *data) error {
		if _, ok := d.lines[line.ID]; !ok {
			return repositories.ErrBookingNotFound
		}
		d.lines[line.ID] = *line
		return nil
	})
}

func (p *bookingRepo) GetService(bookingID, lineID uint) (*models.BookingService, error) {
	var out *models.BookingService
	err := p.r.run(func(d *data) error {
		line, ok := d.lines[lineID]
		if !ok || line.BookingID != bookingID {
			return repositories.ErrBookingNotFound
		}
		out = &line
		return nil
	})
	return out, err
}

func (p *bookingRepo) ListByUser(userID uint, limit, offset int) ([]models.Booking, int64, error) {
	return p.list(func(b models.Booking) bool { return b.UserID == userID }, limit, offset)
}

func (p *bookingRepo) ListByStatus(status string, limit, offset int) ([]models.Booking, int64, error) {
	return p.list(func(b models.Booking) bool { return b.Status == status }, limit, offset)
}

func (p *bookingRepo) list(match func(models.Booking) bool, limit, offset int) ([]models.Booking, int64, error) {
	var out []models.Booking
	var total int64
	err := p.r.run(func(d *data) error {
		var hits []models.Booking
		for id, b := range d.bookings {
			if match(b) {
				b.Services = servicesOf(d, id)
				hits = append(hits, b)
			}
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].ID > hits[j].ID })
		total = int64(len(hits))
		out = page(hits, limit, offset)
		return nil
	})
	return out, total, err
}

func servicesOf(d *data, bookingID uint) []models.BookingService {
	var lines []models.BookingService
	for _, l := range d.lines {
		if l.BookingID == bookingID {
			lines = append(lines, l)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines
}

type invoiceRepo struct {
	r runner
}

func (p *invoiceRepo) Create(invoice *models.Invoice) error {
	return p.r.run(func(d *data) error {
		d.invoiceSeq++
		invoice.ID = d.invoiceSeq
		if invoice.IssuedAt.IsZero() {
			invoice.IssuedAt = now()
		}
		d.invoices[invoice.ID] = *invoice
		return nil
	})
}

func (p *invoiceRepo) GetByBookingID(bookingID uint) (*models.Invoice, error) {
	var out *models.Invoice
	err := p.r.run(func(d *data) error {
		for _, inv := range d.invoices {
			if inv.BookingID == bookingID {
				found := inv
				out = &found
				return nil
			}
		}
		return repositories.ErrInvoiceNotFound
	})
	return out, err
}
