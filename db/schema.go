package db

// The application's SQL statements live in runnable files under sql/ and
// are prepared as sqlx named statements at connection time.

// schemaSQL creates the application schema for SQLite. It is designed to be
// idempotent using `CREATE TABLE IF NOT EXISTS`.
const schemaSQL = "sql/schema.sql"

// Client statements.
const (
	clientInsertSQL = "sql/client_insert.sql"
	clientUpdateSQL = "sql/client_update.sql"
	clientGetSQL    = "sql/client_get.sql"
	clientsSQL      = "sql/clients.sql"
	clientSearchSQL = "sql/client_search.sql"
)

// Product statements.
const (
	productInsertSQL = "sql/product_insert.sql"
	productUpdateSQL = "sql/product_update.sql"
	productDeleteSQL = "sql/product_delete.sql"
	productsSQL      = "sql/products.sql"
	productByNameSQL = "sql/product_by_name.sql"
)

// Quote and line item statements.
const (
	quoteInsertSQL     = "sql/quote_insert.sql"
	quoteGetSQL        = "sql/quote_get.sql"
	quoteUpdateSQL     = "sql/quote_update.sql"
	quoteMaxIDSQL      = "sql/quote_max_id.sql"
	quotesForClientSQL = "sql/quotes_for_client.sql"
	itemInsertSQL      = "sql/item_insert.sql"
	itemsGetSQL        = "sql/items_get.sql"
	itemsDeleteSQL     = "sql/items_delete.sql"
)

// Snapshot history statements.
const (
	historyInsertSQL = "sql/history_insert.sql"
	historyGetSQL    = "sql/history_get.sql"
)
