package retrieve

const schema = `
PRAGMA journal_mode = WAL;

CREATE TABLE IF NOT EXISTS collections (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    collection_id INTEGER NOT NULL,
    source_path TEXT NOT NULL,
    dcf_path TEXT DEFAULT '',
    title TEXT DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(collection_id) REFERENCES collections(id)
);

CREATE TABLE IF NOT EXISTS cells (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id INTEGER NOT NULL,
    page INTEGER NOT NULL,
    importance INTEGER NOT NULL,
    sensitivity TEXT NOT NULL DEFAULT 'public',
    cell_type TEXT NOT NULL DEFAULT 'TEXT',
    text TEXT,
    text_encrypted BLOB,
    encryption TEXT,
    embedding BLOB NOT NULL,
    bbox_x INTEGER DEFAULT 0,
    bbox_y INTEGER DEFAULT 0,
    bbox_w INTEGER DEFAULT 0,
    bbox_h INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(document_id) REFERENCES documents(id)
);

CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection_id);
CREATE INDEX IF NOT EXISTS idx_cells_document ON cells(document_id);
`
