package repository

import "context"

// CartSlotRepository is the durable key-value store holding serialized carts.
// Load returns domain ErrNotFound for an unknown slot. Save overwrites the slot.
type CartSlotRepository interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, payload []byte) error
	Delete(ctx context.Context, slot string) error
}
