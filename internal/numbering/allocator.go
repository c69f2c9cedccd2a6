// Package numbering hands out document numbers of the form "<sequence>/<yy>".
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"meubleerp/internal/model"
	"meubleerp/internal/repository"

	"gorm.io/gorm"
)

// ExistsFunc reports whether a stored document of the target kind already uses numero.
// It must query through tx so it sees the same snapshot as the allocation.
type ExistsFunc func(ctx context.Context, tx *gorm.DB, numero string) (bool, error)

// Allocator draws numbers from the per-kind counters.
// Allocate must be called inside the transaction that inserts the document:
// the counter row stays locked until commit, and a rollback returns the number.
type Allocator struct {
	compteurs repository.CompteurRepository
	now       func() time.Time
}

func NewAllocator(compteurs repository.CompteurRepository) *Allocator {
	return &Allocator{compteurs: compteurs, now: time.Now}
}

// WithClock replaces the clock used for the year suffix.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// Allocate reserves the next free number for kind and advances its counter past it.
func (a *Allocator) Allocate(ctx context.Context, tx *gorm.DB, kind model.DocumentKind, exists ExistsFunc) (string, error) {
	c, err := a.compteurs.GetOrCreate(ctx, tx, kind)
	if err != nil {
		return "", fmt.Errorf("lecture compteur %s: %w", kind, err)
	}
	n, err := strconv.ParseInt(c.Valeur, 10, 64)
	if err != nil || n < 1 {
		return "", fmt.Errorf("compteur %s corrompu: %q", kind, c.Valeur)
	}

	yy := a.now().Year() % 100
	candidate := Format(kind, n, yy)
	for {
		taken, err := exists(ctx, tx, candidate)
		if err != nil {
			return "", fmt.Errorf("verification numero %s: %w", candidate, err)
		}
		if !taken {
			break
		}
		n++
		candidate = Format(kind, n, yy)
	}

	if err := a.compteurs.Advance(ctx, tx, kind, n+1); err != nil {
		return "", fmt.Errorf("avance compteur %s: %w", kind, err)
	}
	return candidate, nil
}

// Format renders a document number. Receipts pad the sequence to three digits.
func Format(kind model.DocumentKind, n int64, yy int) string {
	if kind == model.KindRecuPaiement {
		return fmt.Sprintf("%03d/%02d", n, yy)
	}
	return fmt.Sprintf("%d/%02d", n, yy)
}
