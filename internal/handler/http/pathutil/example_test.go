package pathutil_test

import (
	"fmt"

	"blog-admin/internal/handler/http/pathutil"
)

// ExampleNormalizePath shows how IDs are folded into templates so metrics keep a bounded label set.
func ExampleNormalizePath() {
	fmt.Println(pathutil.NormalizePath("/articles/123"))
	fmt.Println(pathutil.NormalizePath("/admin/article/42/change/"))
	fmt.Println(pathutil.NormalizePath("/articles/search?keyword=go"))

	// Output:
	// /articles/:id
	// /admin/article/:id/change
	// /articles/search
}
