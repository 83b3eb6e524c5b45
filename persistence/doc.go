// Package persistence frames encoded snapshots for storage.
//
// A frame is a small fixed header followed by the (optionally compressed)
// codec output:
//
//	┌──────────┬─────────┬─────────────┬──────────┬───────────┬─────────┬─────────┬─────────┬─────────┐
//	│ magic 4B │ ver 2B  │ compress 1B │ clen 1B  │ codec     │ raw 8B  │ data 8B │ crc 4B  │ payload │
//	│ "HXV1"   │         │             │          │ clen bytes│         │         │ CRC32C  │         │
//	└──────────┴─────────┴─────────────┴──────────┴───────────┴─────────┴─────────┴─────────┴─────────┘
//
// All integers are little-endian. The checksum covers the stored payload
// bytes, so corruption is detected before decompression. The codec name is
// recorded so frames written with one codec can be decoded after the default
// codec changes.
package persistence
