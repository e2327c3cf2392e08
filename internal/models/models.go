// Package models defines the plaintext entity types held in the vault.
//
// These structures exist only in memory while the vault is unlocked; the
// durable representation of every collection is a nonce+ciphertext row
// (see internal/storage/records). JSON tags match the legacy plaintext
// export format so old data imports unchanged.
package models

import "time"

// Identified is implemented by every entity carrying a client-assigned
// logical id. The logical id is distinct from the auto-assigned storage id
// of the encrypted row that holds the entity.
type Identified interface {
	LogicalID() int64
}

// JournalEntry is a dated free-form journal record.
type JournalEntry struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

func (e JournalEntry) LogicalID() int64 { return e.ID }

// Task is a to-do item.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Task) LogicalID() int64 { return t.ID }

// CalendarEvent is a scheduled event the reminder engine watches.
type CalendarEvent struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	StartsAt    time.Time `json:"dateTime"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e CalendarEvent) LogicalID() int64 { return e.ID }
