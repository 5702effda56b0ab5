package mysql

const insertReviewsPrefix = "INSERT INTO reviews\n  (source_row, place, lat, lng, sentiment, review_tokens)\nVALUES "

const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  place         = VALUES(place),\n" +
	"  lat           = VALUES(lat),\n" +
	"  lng           = VALUES(lng),\n" +
	"  sentiment     = VALUES(sentiment),\n" +
	"  review_tokens = VALUES(review_tokens)\n"

// source_row is 1-based, so rows beyond the latest import are stale.
const deleteAboveSQL = `DELETE FROM reviews WHERE source_row > ?`

const listReviewsSQL = `
SELECT source_row, place, lat, lng, sentiment, review_tokens
FROM reviews
ORDER BY source_row
`

const countReviewsSQL = `SELECT COUNT(*) FROM reviews`
