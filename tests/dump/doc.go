/*
Package dump provides I/O operations for snapshots of the world state.

A snapshot captures every storage item of the host: records of all programs
along with the asset ledger. It is in demand for testing against the state of
a live world and for moving the world between storage backends.

Each snapshot consists of two files:

	'<label>-<time>-manifest.json': version, clock and program identities
	'<label>-<time>-storage.csv.zst': zstd-compressed CSV of storage items

Storage CSV rows are 'kind,key,value' where kind names the storage item class
and binary key-value are base64-encoded.
*/
package dump
