// Package catalog adapts the external inventory service to the price lookup
// interfaces the booking service consumes. Lookups are cached; room and
// service prices change rarely and a stale price is harmless because every
// booking freezes the price it was created with.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stayhub/internal/errors"
	"stayhub/internal/repositories/cache"
	"stayhub/internal/services/booking"

	"github.com/gofiber/fiber/v2"
)

const cacheTTL = 5 * time.Minute

// Client fetches room and service pricing over HTTP from the inventory
// service. It satisfies booking.RoomCatalog and booking.ServiceCatalog.
type Client struct {
	baseURL string
	cache   *cache.CacheService
}

// NewClient creates an inventory client. cache may be nil.
func NewClient(baseURL string, cacheService *cache.CacheService) *Client {
	return &Client{
		baseURL: baseURL,
		cache:   cacheService,
	}
}

func (c *Client) Room(ctx context.Context, roomID uint) (*booking.RoomInfo, error) {
	var info booking.RoomInfo
	key := fmt.Sprintf("catalog:room:%d", roomID)
	if c.cached(ctx, key, &info) {
		return &info, nil
	}

	if err := c.fetch(fmt.Sprintf("%s/rooms/%d", c.baseURL, roomID), &info); err != nil {
		return nil, err
	}
	if info.NightlyPrice <= 0 {
		return nil, errors.Validation("room %d has no nightly price", roomID)
	}

	c.store(ctx, key, &info)
	return &info, nil
}

func (c *Client) Service(ctx context.Context, serviceID uint) (*booking.ServiceInfo, error) {
	var info booking.ServiceInfo
	key := fmt.Sprintf("catalog:service:%d", serviceID)
	if c.cached(ctx, key, &info) {
		return &info, nil
	}

	if err := c.fetch(fmt.Sprintf("%s/services/%d", c.baseURL, serviceID), &info); err != nil {
		return nil, err
	}
	if info.Price <= 0 {
		return nil, errors.Validation("service %d has no price", serviceID)
	}

	c.store(ctx, key, &info)
	return &info, nil
}

func (c *Client) fetch(url string, dest interface{}) error {
	agent := fiber.Get(url)
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("inventory request failed: %w", errs[0])
	}
	if status == fiber.StatusNotFound {
		return errors.ErrNotFound
	}
	if status != fiber.StatusOK {
		return fmt.Errorf("inventory request failed: status %d", status)
	}
	return json.Unmarshal(body, dest)
}

func (c *Client) cached(ctx context.Context, key string, dest interface{}) bool {
	if c.cache == nil {
		return false
	}
	found, err := c.cache.Get(ctx, key, dest)
	return err == nil && found
}

func (c *Client) store(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	// Cache write failures never fail a lookup.
	_ = c.cache.SetWithTTL(ctx, key, value, cacheTTL)
}
