package sqlstore

// schema uses types both SQLite and MySQL accept. JSON documents live in
// LONGTEXT columns and timestamps are RFC 3339 strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS arrangements (
		event_id VARCHAR(191) NOT NULL PRIMARY KEY,
		meta LONGTEXT NOT NULL,
		tables_json LONGTEXT NOT NULL,
		created_at VARCHAR(40) NOT NULL,
		updated_at VARCHAR(40) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendees (
		event_id VARCHAR(191) NOT NULL,
		attendee_id VARCHAR(191) NOT NULL,
		sort_order INTEGER NOT NULL,
		data LONGTEXT NOT NULL,
		PRIMARY KEY (event_id, attendee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS view_states (
		event_id VARCHAR(191) NOT NULL PRIMARY KEY,
		data LONGTEXT NOT NULL
	)`,
}
