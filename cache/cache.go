package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"CareBridge/models"

	"github.com/redis/go-redis/v9"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 10 * time.Minute
	doctorListKey      = "doctors:all"
	doctorListTTL      = 5 * time.Minute
)

// Cache wraps an optional Redis connection. When REDIS_URL is not set every
// method is an inert no-op, so the platform runs fine without Redis. Cache
// errors are never surfaced to callers, only logged.
type Cache struct {
	client *redis.Client
}

func New(redisURL string) *Cache {
	if redisURL == "" {
		return &Cache{}
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Println("invalid REDIS_URL, caching disabled:", err)
		return &Cache{}
	}
	return &Cache{client: redis.NewClient(opts)}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Locked reports whether the email has hit the failed-login limit inside the
// current window.
func (c *Cache) Locked(ctx context.Context, email string) bool {
	if !c.Enabled() {
		return false
	}
	n, err := c.client.Get(ctx, loginAttemptKey(email)).Int64()
	if err != nil {
		if err != redis.Nil {
			log.Println("Error reading login attempts:", err)
		}
		return false
	}
	return n >= loginAttemptLimit
}

// RegisterFailure counts one failed login and reports whether the account is
// now locked.
func (c *Cache) RegisterFailure(ctx context.Context, email string) bool {
	if !c.Enabled() {
		return false
	}
	key := loginAttemptKey(email)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		log.Println("Error counting login attempts:", err)
		return false
	}
	if n == 1 {
		if err := c.client.Expire(ctx, key, loginAttemptWindow).Err(); err != nil {
			log.Println("Error expiring login attempts:", err)
		}
	}
	return n >= loginAttemptLimit
}

func (c *Cache) Clear(ctx context.Context, email string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, loginAttemptKey(email)).Err(); err != nil {
		log.Println("Error clearing login attempts:", err)
	}
}

func loginAttemptKey(email string) string {
	return "login:attempts:" + email
}

func (c *Cache) GetDoctorList(ctx context.Context) ([]models.Doctor, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.client.Get(ctx, doctorListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Println("Error reading doctor list cache:", err)
		}
		return nil, false
	}
	var doctors []models.Doctor
	if err := json.Unmarshal(raw, &doctors); err != nil {
		log.Println("Error decoding doctor list cache:", err)
		return nil, false
	}
	return doctors, true
}

func (c *Cache) SetDoctorList(ctx context.Context, doctors []models.Doctor) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(doctors)
	if err != nil {
		log.Println("Error encoding doctor list cache:", err)
		return
	}
	if err := c.client.Set(ctx, doctorListKey, raw, doctorListTTL).Err(); err != nil {
		log.Println("Error writing doctor list cache:", err)
	}
}

func (c *Cache) InvalidateDoctorList(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, doctorListKey).Err(); err != nil {
		log.Println("Error invalidating doctor list cache:", err)
	}
}
