package store

const (
	localGet = `SELECT value FROM local_kv WHERE key = ?;`

	localUpsert = `INSERT INTO local_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	localDelete = `DELETE FROM local_kv WHERE key = ?;`

	localListByPrefix = `SELECT key, value FROM local_kv WHERE substr(key, 1, ?) = ? ORDER BY key;`

	localDeleteByPrefix = `DELETE FROM local_kv WHERE substr(key, 1, ?) = ?;`
)
