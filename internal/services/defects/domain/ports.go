package domain

import "context"

// WriterPort persists defect records into named destinations
// Open is called once with every destination before the first Write
type WriterPort interface {
	Open(ctx context.Context, dsts []Destination) error
	Write(ctx context.Context, r Record) error
	Close(ctx context.Context) error
}
