package stores

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrUserExists        = errors.New("user already exists")
	ErrAdvertiseLimit    = errors.New("advertise limit reached")
	ErrInsufficientStock = errors.New("not enough tickets left")
	ErrAlreadyPaid       = errors.New("booking already paid")
	ErrAlreadyRedeemed   = errors.New("booking already redeemed")
)
