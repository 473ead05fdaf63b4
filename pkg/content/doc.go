// Package content loads the YAML documents behind the portfolio's lazy
// pages.
//
// A Source serves raw documents by key ("about.yaml"). FSSource reads from
// any fs.FS, including the defaults embedded in the binary. S3Source reads
// from a bucket. Decode fetches and strictly decodes a document:
//
//	about, err := content.Decode[content.About](ctx, src, content.KeyAbout)
package content
