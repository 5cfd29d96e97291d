package testsupport

import "fmt"

// ArticleFixture renders a minimal article document with every required
// front-matter field populated, suitable for writing into a test corpus.
func ArticleFixture(title, slug, published string) []byte {
	return []byte(fmt.Sprintf(`---
title: %q
categories: ["Java"]
date: %s
authors: [pratikdas]
url: %s
---

Body text for %s.
`, title, published, slug, title))
}
