package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS gradebook_modules (
  id UUID PRIMARY KEY,
  user_id TEXT NOT NULL,
  code TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  ects INTEGER NOT NULL DEFAULT 5 CHECK (ects BETWEEN 0 AND 60),
  scale TEXT NOT NULL,
  method TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (user_id, code)
);

CREATE TABLE IF NOT EXISTS gradebook_assessments (
  id UUID PRIMARY KEY,
  module_id UUID NOT NULL REFERENCES gradebook_modules(id) ON DELETE CASCADE,
  name TEXT NOT NULL DEFAULT '',
  weight DOUBLE PRECISION NOT NULL CHECK (weight BETWEEN 0 AND 100),
  mark DOUBLE PRECISION CHECK (mark BETWEEN 0 AND 100),
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS gradebook_assessments_module_idx ON gradebook_assessments (module_id, created_at);

CREATE TABLE IF NOT EXISTS gradebook_catalog (
  code TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  ects INTEGER NOT NULL,
  default_scale TEXT NOT NULL
);
`

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS gradebook_modules (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  code TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  ects INTEGER NOT NULL DEFAULT 5 CHECK (ects BETWEEN 0 AND 60),
  scale TEXT NOT NULL,
  method TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  UNIQUE (user_id, code)
);

CREATE TABLE IF NOT EXISTS gradebook_assessments (
  id TEXT PRIMARY KEY,
  module_id TEXT NOT NULL REFERENCES gradebook_modules(id) ON DELETE CASCADE,
  name TEXT NOT NULL DEFAULT '',
  weight REAL NOT NULL CHECK (weight BETWEEN 0 AND 100),
  mark REAL CHECK (mark BETWEEN 0 AND 100),
  status TEXT NOT NULL DEFAULT 'pending',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS gradebook_assessments_module_idx ON gradebook_assessments (module_id, created_at);

CREATE TABLE IF NOT EXISTS gradebook_catalog (
  code TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  ects INTEGER NOT NULL,
  default_scale TEXT NOT NULL
);
`
