// Package uploader drives files through the direct-to-storage upload
// protocol and records every transition in a registry.
//
// One run handles one file, strictly in order:
//
//  1. Negotiate: ask the API for an upload slot and a pre-signed URL.
//  2. Transfer: PUT the bytes straight to object storage, reporting
//     progress as round(sent/total*95) so a file never shows 100% before
//     the server has acknowledged it.
//  3. Finalize: acknowledge the transfer with the storage ETag, then mark
//     the item completed and invalidate cached folder listings.
//
// Any stage failure ends the run as failed with a user-facing message and a
// single "<fileName>: <message>" notification. Upload and UploadBatch never
// return errors; runs of a batch are independent.
package uploader
