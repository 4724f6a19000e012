package service

import "strings"

// ImageURLs derives public image URLs from stored file names.
type ImageURLs struct {
	base string
}

// NewImageURLs takes the public origin of the server, e.g.
// "http://localhost:3333".
func NewImageURLs(publicURL string) ImageURLs {
	return ImageURLs{base: strings.TrimRight(publicURL, "/")}
}

// Item returns the URL of a seeded item icon.
func (u ImageURLs) Item(image string) string {
	return u.base + "/uploads/" + image
}

// Point returns the URL of an uploaded point image.
func (u ImageURLs) Point(image string) string {
	return u.base + "/uploads/data/" + image
}
