package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_people",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_sessions",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_criteria",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS people (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	region TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('leader', 'staff', 'admin')),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_people_region ON people (region);
CREATE INDEX IF NOT EXISTS idx_people_role ON people (role);
`

const migration001Down = `
DROP TABLE IF EXISTS people;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS sessions (
	id UUID PRIMARY KEY,
	session_date DATE NOT NULL,
	location TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_by UUID NOT NULL REFERENCES people (id),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions (session_date);

CREATE TABLE IF NOT EXISTS participations (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
	person_id UUID NOT NULL REFERENCES people (id),
	role TEXT NOT NULL CHECK (role IN ('LEADER', 'REGISTRATION_EXPERT', 'ROOM_CAPTAIN')),
	UNIQUE (session_id, person_id, role)
);

CREATE INDEX IF NOT EXISTS idx_participations_person ON participations (person_id);
CREATE INDEX IF NOT EXISTS idx_participations_session ON participations (session_id);

CREATE TABLE IF NOT EXISTS session_metrics (
	session_id UUID PRIMARY KEY REFERENCES sessions (id) ON DELETE CASCADE,
	guests INTEGER NOT NULL CHECK (guests >= 0),
	registrations INTEGER NOT NULL CHECK (registrations >= 0 AND registrations <= guests),
	submitted_by UUID NOT NULL REFERENCES people (id),
	submitted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration002Down = `
DROP TABLE IF EXISTS session_metrics;
DROP TABLE IF EXISTS participations;
DROP TABLE IF EXISTS sessions;
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS criteria (
	id UUID PRIMARY KEY,
	region TEXT,
	role TEXT CHECK (role IS NULL OR role IN ('leader', 'staff', 'admin')),
	target_guests INTEGER CHECK (target_guests IS NULL OR target_guests >= 0),
	target_registrations INTEGER CHECK (target_registrations IS NULL OR target_registrations >= 0),
	target_effectiveness DOUBLE PRECISION CHECK (
		target_effectiveness IS NULL
		OR (target_effectiveness >= 0 AND target_effectiveness <= 1)
	),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	CHECK (
		target_guests IS NOT NULL
		OR target_registrations IS NOT NULL
		OR target_effectiveness IS NOT NULL
	)
);

-- One criteria record per exact scope, with NULLs folded so that two
-- global records (or two records for the same region) collide.
CREATE UNIQUE INDEX IF NOT EXISTS idx_criteria_scope
	ON criteria (COALESCE(region, ''), COALESCE(role, ''));
`

const migration003Down = `
DROP TABLE IF EXISTS criteria;
`
