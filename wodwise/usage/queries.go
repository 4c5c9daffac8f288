package usage

const (
	selectCountQuery = `
		SELECT request_count
		FROM ai_usage
		WHERE user_id = $1 AND usage_date = $2`

	// upsert keeps concurrent increments for the same key lossless
	incrementQuery = `
		INSERT INTO ai_usage (user_id, usage_date, request_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, usage_date)
		DO UPDATE SET request_count = ai_usage.request_count + 1
		RETURNING request_count`
)
