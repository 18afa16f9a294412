package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "admin_otp:"

// OTPStore holds short-lived admin login codes.
type OTPStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Verify reports whether the code matches and consumes it on success.
	Verify(ctx context.Context, email, code string) (bool, error)
}

type redisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore backs OTP codes with Redis TTL expiry.
func NewRedisOTPStore(client *redis.Client) OTPStore {
	return &redisOTPStore{client: client}
}

func (s *redisOTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(email), code, ttl).Err()
}

func (s *redisOTPStore) Verify(ctx context.Context, email, code string) (bool, error) {
	key := otpKey(email)
	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}
	_ = s.client.Del(ctx, key).Err()
	return true, nil
}

func otpKey(email string) string {
	return otpKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// GenerateOTP produces a numeric one-time code of the given length.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
