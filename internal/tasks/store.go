package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// EntryStore persists one playlist entry at a time.
type EntryStore interface {
	CreateSong(ctx context.Context, entry *models.PlaylistEntry) (*models.PlaylistEntry, error)
}

// StoreStatus classifies the outcome of storing one entry.
type StoreStatus int

const (
	Stored    StoreStatus = iota // accepted by the storage resource
	Rejected                     // storage answered with a non-200 status
	Exception                    // storage could not be reached
)

func (s StoreStatus) String() string {
	switch s {
	case Stored:
		return "stored"
	case Rejected:
		return "rejected"
	case Exception:
		return "exception"
	default:
		return ""
	}
}

// StoreOutcome is the result of storing one playlist entry.
type StoreOutcome struct {
	Entry  *models.PlaylistEntry
	Status StoreStatus
	Err    error
}

// Message renders the outcome as a single status line.
func (o StoreOutcome) Message() string {
	switch o.Status {
	case Stored:
		return fmt.Sprintf("✅ Stored: %s", o.Entry.Title)
	case Rejected:
		return fmt.Sprintf("⚠️ Error storing %s: %v", o.Entry.Title, o.Err)
	default:
		return fmt.Sprintf("❌ Exception occurred: %v", o.Err)
	}
}

// StoreEntries stores each entry individually, in order.
//
// A failure is recorded on its own outcome and never stops or undoes the others.
func StoreEntries(ctx context.Context, store EntryStore, entries []*models.PlaylistEntry) []StoreOutcome {
	outcomes := make([]StoreOutcome, 0, len(entries))

	for _, entry := range entries {
		outcome := StoreOutcome{Entry: entry, Status: Stored}

		stored, err := store.CreateSong(ctx, entry)
		switch {
		case err == nil:
			if stored != nil {
				outcome.Entry = stored
			}
		case errors.Is(err, shared.ErrServiceUnavailable):
			outcome.Status = Exception
			outcome.Err = err
		default:
			outcome.Status = Rejected
			outcome.Err = err
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// CountStored returns how many outcomes were stored successfully.
func CountStored(outcomes []StoreOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == Stored {
			n++
		}
	}
	return n
}
