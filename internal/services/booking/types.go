package booking

import (
	"context"
	"time"
)

// Deposit policy types
const (
	DepositPolicyPercentage = "percentage"
	DepositPolicyFixed      = "fixed"
)

// DepositPolicy sizes the deposit a new booking requires. The zero value
// demands the full total price.
type DepositPolicy struct {
	Type  string
	Value int64
}

// Amount returns the deposit required for a booking total.
func (p DepositPolicy) Amount(totalPrice int64) int64 {
	switch p.Type {
	case DepositPolicyPercentage:
		return (totalPrice*p.Value + 50) / 100
	case DepositPolicyFixed:
		if p.Value < totalPrice {
			return p.Value
		}
		return totalPrice
	default:
		return totalPrice
	}
}

// RoomInfo is the pricing snapshot the room catalog returns.
type RoomInfo struct {
	HotelID      uint  `json:"hotel_id"`
	NightlyPrice int64 `json:"nightly_price"`
}

// RoomCatalog looks up room pricing from the inventory collaborator.
type RoomCatalog interface {
	Room(ctx context.Context, roomID uint) (*RoomInfo, error)
}

// ServiceInfo is the pricing snapshot the service catalog returns.
type ServiceInfo struct {
	Name                 string `json:"name"`
	Price                int64  `json:"price"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
}

// ServiceCatalog looks up hotel service pricing.
type ServiceCatalog interface {
	Service(ctx context.Context, serviceID uint) (*ServiceInfo, error)
}

// CreateInput carries everything needed to open a reservation.
type CreateInput struct {
	RoomID       uint
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
	ContactName  string
	ContactPhone string
	ContactEmail string
}
