package athletes

const (
	selectTierQuery = `
		SELECT subscription_tier
		FROM athlete_profiles
		WHERE user_id = $1`

	selectProfileQuery = `
		SELECT experience_level, skills, strength_numbers, limitations
		FROM athlete_profiles
		WHERE user_id = $1`

	upsertProfileQuery = `
		INSERT INTO athlete_profiles (user_id, subscription_tier, experience_level, skills, strength_numbers, limitations, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			experience_level = EXCLUDED.experience_level,
			skills = EXCLUDED.skills,
			strength_numbers = EXCLUDED.strength_numbers,
			limitations = EXCLUDED.limitations,
			updated_at = NOW()`
)
