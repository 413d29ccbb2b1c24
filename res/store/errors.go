package store

import "errors"

var (
	ErrUniqueViolation = errors.New("store: duplicate key value violates unique constraint")
	ErrInvalidInput    = errors.New("store: invalid input")

	ErrNotFound = errors.New("store: record not found")

	// The partial unique index on (cleaner_id, service_date, service_time)
	// scoped to active statuses fired during insert.
	ErrSlotOccupied = errors.New("store: active booking already exists for this slot")
)
