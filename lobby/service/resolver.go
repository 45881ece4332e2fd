// lobby/service/resolver.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"github.com/google/uuid"
)

// GuestRoll is the identifier a registration carries when the payload itself
// is the player's profile.
const GuestRoll = "1"

// guestNamespace seeds deterministic guest ids derived from an email address.
var guestNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("lasertag:guest"))

// Registration is one identity event: a card scan (Roll only) or a guest
// sign-up (Roll "1" plus profile fields).
type Registration struct {
	Roll       string
	RollNumber string
	Name       string
	Email      string
	Mobile     string
}

// Resolver turns a Registration into a PlayerRef.
type Resolver struct {
	directory PlayerDirectory
	cache     PlayerCache
	timeout   time.Duration
}

// NewResolver creates a Resolver. cache may be nil.
func NewResolver(directory PlayerDirectory, cache PlayerCache, timeout time.Duration) *Resolver {
	return &Resolver{directory: directory, cache: cache, timeout: timeout}
}

// Resolve returns the profile for reg, or ErrUnknownPlayer.
func (r *Resolver) Resolve(ctx context.Context, reg Registration) (models.PlayerRef, error) {
	roll := strings.TrimSpace(reg.Roll)
	if roll == "" {
		return models.PlayerRef{}, ErrMissingIdentifier
	}
	if roll == GuestRoll {
		return guestPlayer(reg), nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, roll)
		if err != nil {
			log.Printf("WARN: Resolver: cache lookup for %s failed: %v", roll, err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	player, err := r.directory.GetPlayer(ctx, roll)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return models.PlayerRef{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, roll)
		}
		return models.PlayerRef{}, fmt.Errorf("%w: directory lookup for %s: %v", ErrStorageUnavailable, roll, err)
	}
	if player.RollNumber == "" {
		player.RollNumber = roll
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, player); err != nil {
			log.Printf("WARN: Resolver: caching %s failed: %v", roll, err)
		}
	}
	return *player, nil
}

// guestPlayer builds an ad-hoc profile from the payload. Its id is the
// payload's own roll number when usable, otherwise derived from the email,
// then the mobile, then random.
func guestPlayer(reg Registration) models.PlayerRef {
	p := models.PlayerRef{
		Name:   strings.TrimSpace(reg.Name),
		Email:  strings.TrimSpace(reg.Email),
		Mobile: strings.TrimSpace(reg.Mobile),
		Guest:  true,
	}
	switch rn := strings.TrimSpace(reg.RollNumber); {
	case rn != "" && rn != GuestRoll:
		p.RollNumber = rn
	case p.Email != "":
		p.RollNumber = "guest-" + uuid.NewSHA1(guestNamespace, []byte(strings.ToLower(p.Email))).String()
	case p.Mobile != "":
		p.RollNumber = "guest-" + p.Mobile
	default:
		p.RollNumber = "guest-" + uuid.NewString()
	}
	return p
}
