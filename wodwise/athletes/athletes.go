// Package athletes reads and writes athlete profile rows, including the
// subscription tier the quota policy keys off.
package athletes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wodwise/gateway/internal/coach"
	"github.com/wodwise/gateway/internal/logger"
	"github.com/wodwise/gateway/internal/quota"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TierFor resolves a user's subscription tier. A missing row or a read
// failure resolves to the free tier so an unreadable profile can never
// grant an unbounded quota.
func (r *Repository) TierFor(ctx context.Context, userID string) string {
	var tier string

	err := r.pool.QueryRow(ctx, selectTierQuery, userID).Scan(&tier)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("tier lookup failed, defaulting to free", "user_id", userID, "error", err.Error())
		}
		return quota.TierFree
	}

	if tier == "" {
		return quota.TierFree
	}

	return tier
}

// ProfileFor returns the athlete's stored fitness profile, or nil when no
// profile row exists.
func (r *Repository) ProfileFor(ctx context.Context, userID string) (*coach.UserProfile, error) {
	var (
		experienceLevel *string
		skillsJSON      []byte
		strengthJSON    []byte
		limitations     []string
	)

	err := r.pool.QueryRow(ctx, selectProfileQuery, userID).Scan(
		&experienceLevel, &skillsJSON, &strengthJSON, &limitations,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query athlete profile: %w", err)
	}

	profile := &coach.UserProfile{Limitations: limitations}

	if experienceLevel != nil {
		profile.ExperienceLevel = *experienceLevel
	}

	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &profile.Skills); err != nil {
			return nil, fmt.Errorf("failed to decode skills: %w", err)
		}
	}

	if len(strengthJSON) > 0 {
		if err := json.Unmarshal(strengthJSON, &profile.StrengthNumbers); err != nil {
			return nil, fmt.Errorf("failed to decode strength numbers: %w", err)
		}
	}

	return profile, nil
}

// SaveProfile upserts the athlete's profile row keyed by user id.
func (r *Repository) SaveProfile(ctx context.Context, userID, tier string, profile *coach.UserProfile) error {
	skillsJSON, err := json.Marshal(profile.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}

	strengthJSON, err := json.Marshal(profile.StrengthNumbers)
	if err != nil {
		return fmt.Errorf("failed to encode strength numbers: %w", err)
	}

	if tier == "" {
		tier = quota.TierFree
	}

	_, err = r.pool.Exec(ctx, upsertProfileQuery,
		userID, tier, profile.ExperienceLevel, skillsJSON, strengthJSON, profile.Limitations,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert athlete profile: %w", err)
	}

	return nil
}
