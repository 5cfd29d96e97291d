// Package validate checks parsed documents against the article metadata
// schema. The per-document validator accumulates every violated constraint
// before returning; the corpus runner fans validation out over a worker pool
// and layers the cross-document slug uniqueness check on top.
package validate
