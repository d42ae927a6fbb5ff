// Package items persists sealed secure-storage values in the secure_items
// table of the local vault database.
//
// Rows hold ciphertext and the nonce it was sealed with; the package never
// sees plaintext. Sealing and opening happen one layer up, in the vault.
//
// A SQLiteRepository works over dbx.DBTX, so the same code runs against a
// *sql.DB or inside a transaction started with dbx.WithTx.
package items
