package storage

const schemaEvents = `
CREATE TABLE IF NOT EXISTS events (
    id          VARCHAR NOT NULL,
    event_type  VARCHAR NOT NULL,
    source      VARCHAR,
    amount      BIGINT,
    attributes  JSON,
    created_at  TIMESTAMP NOT NULL
);
`

const indexEvents = `
CREATE INDEX IF NOT EXISTS idx_events_created_at
ON events (created_at, event_type);
`
