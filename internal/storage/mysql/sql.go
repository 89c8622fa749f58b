package mysql

// Stores are keyed externally by place_id; the LAST_INSERT_ID(id) trick makes
// the upsert return the surviving row's id for both insert and update paths.
const upsertStoreSQL = `
INSERT INTO stores
  (owner_id, place_id, name, address, lat, lng, category, rating, review_count, price_level, last_analyzed)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON DUPLICATE KEY UPDATE
  id            = LAST_INSERT_ID(id),
  name          = VALUES(name),
  address       = VALUES(address),
  lat           = VALUES(lat),
  lng           = VALUES(lng),
  category      = VALUES(category),
  rating        = VALUES(rating),
  review_count  = VALUES(review_count),
  price_level   = VALUES(price_level),
  last_analyzed = CURRENT_TIMESTAMP
`

// Analyses are append-only; emotion columns are filled in later by attach.
const insertAnalysisSQL = `
INSERT INTO analyses
  (store_id, factor_scores, overall_score, sentiment, trending_keywords, summary, improvements, review_count, analyzed_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
`

const attachEmotionsSQL = `
UPDATE analyses
SET emotion_scores = ?, dominant_emotion = ?
WHERE store_id = ?
ORDER BY analyzed_at DESC, id DESC
LIMIT 1
`

const getStoreSQL = `
SELECT id, owner_id, place_id, name, address, lat, lng, category, rating, review_count, price_level, last_analyzed
FROM stores
WHERE id = ?
`

const latestAnalysisSQL = `
SELECT id, store_id, factor_scores, overall_score, sentiment, trending_keywords, summary, improvements, review_count,
       emotion_scores, dominant_emotion, analyzed_at
FROM analyses
WHERE store_id = ?
ORDER BY analyzed_at DESC, id DESC
LIMIT 1
`

const latestEmotionsSQL = `
SELECT emotion_scores, dominant_emotion, analyzed_at
FROM analyses
WHERE store_id = ? AND emotion_scores IS NOT NULL
ORDER BY analyzed_at DESC, id DESC
LIMIT 1
`
