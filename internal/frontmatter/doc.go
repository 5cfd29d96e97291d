// Package frontmatter turns raw article files into structured documents: it
// locates and decodes the metadata block, preserves the original mapping for
// downstream validation, and re-serializes normalized records back into
// front-matter text. Discovery, rendering, and serialization live here;
// constraint checking lives in the validate package.
package frontmatter
