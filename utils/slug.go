// utils/slug.go
package utils

import "github.com/gosimple/slug"

// Slugify turns a dataset title into its catalog name, e.g.
// "Benin: Languages" becomes "benin-languages".
func Slugify(title string) string {
	return slug.Make(title)
}
