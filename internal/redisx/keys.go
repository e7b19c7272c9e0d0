package redisx

import (
	"fmt"
	"time"
)

const (
	// Confirmation latch per provider reference: confirm:{method}:{ref}
	keyConfirm = "confirm:%s:%s"

	// Wallet top-up context per provider reference: topup:{provider}:{ref}
	// -> "{user_id}:{amount_cents}"
	keyTopup = "topup:%s:%s"
)

var (
	TTLConfirm = 24 * time.Hour
	TTLTopup   = time.Hour
)

func ConfirmKey(method, providerRef string) string {
	return fmt.Sprintf(keyConfirm, method, providerRef)
}

func TopupKey(provider, ref string) string {
	return fmt.Sprintf(keyTopup, provider, ref)
}
