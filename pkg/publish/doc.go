// Package publish uploads a built output directory to Amazon S3.
//
// The publisher walks the build output, derives object keys from the
// relative file paths, and uploads every file with a content type
// inferred from its extension. Uploads are driven by the project's
// publish configuration (bucket, key prefix, region).
package publish
