package database

type migration struct {
	name      string
	statement string
}

func getMigrations() []migration {
	return []migration{
		{
			name: "initial_schema",
			statement: `
				-- Users table
				CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					username TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					email TEXT DEFAULT ''
				);

				-- Active events. Dates are 'YYYY-MM-DD' text, times 'HH:MM'
				-- text, so ORDER BY matches calendar order.
				CREATE TABLE IF NOT EXISTS events (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					name TEXT NOT NULL,
					date TEXT NOT NULL,
					time TEXT DEFAULT '',
					venue TEXT DEFAULT '',
					description TEXT DEFAULT '',
					is_archived INTEGER DEFAULT 0,
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
				);

				-- Archived events keep the id of the event they came from,
				-- so no AUTOINCREMENT here.
				CREATE TABLE IF NOT EXISTS archived_events (
					id INTEGER PRIMARY KEY,
					user_id INTEGER NOT NULL,
					name TEXT NOT NULL,
					date TEXT NOT NULL,
					time TEXT DEFAULT '',
					venue TEXT DEFAULT '',
					description TEXT DEFAULT '',
					archived_at TEXT NOT NULL,
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS tasks (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					event_id INTEGER NOT NULL,
					description TEXT NOT NULL,
					is_completed INTEGER DEFAULT 0,
					FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
				);

				CREATE TABLE IF NOT EXISTS guests (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					event_id INTEGER NOT NULL,
					name TEXT NOT NULL,
					email TEXT DEFAULT '',
					FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
				);

				CREATE INDEX IF NOT EXISTS idx_events_user_date ON events(user_id, date, time);
				CREATE INDEX IF NOT EXISTS idx_tasks_event ON tasks(event_id);
				CREATE INDEX IF NOT EXISTS idx_guests_event ON guests(event_id);
			`,
		},
		{
			name: "backup_documents",
			statement: `
				-- Server-side backup storage, one document per user,
				-- the latest push wins.
				CREATE TABLE IF NOT EXISTS backups (
					user_id INTEGER PRIMARY KEY,
					backup_id TEXT NOT NULL,
					document TEXT NOT NULL,
					received_at TEXT NOT NULL
				);
			`,
		},
	}
}
