package vkapi

import (
	"cmp"
	"fmt"
	"strings"
)

const DefaultAccountBaseURL = "https://vk.com"

// URLBuilder builds browser links (not API URLs) to wall content.
type URLBuilder struct {
	BaseURL string
}

func NewURLBuilder(baseURL string) URLBuilder {
	return URLBuilder{BaseURL: strings.TrimRight(cmp.Or(baseURL, DefaultAccountBaseURL), "/")}
}

func (b URLBuilder) WallPost(ownerID, postID int64) string {
	return fmt.Sprintf("%s?w=wall%d_%d", b.base(), ownerID, postID)
}

func (b URLBuilder) WallComment(ownerID, postID, commentID int64) string {
	return fmt.Sprintf("%s/wall%d_%d?reply=%d", b.base(), ownerID, postID, commentID)
}

func (b URLBuilder) base() string {
	return cmp.Or(b.BaseURL, DefaultAccountBaseURL)
}

// Wall links to the wall itself.
func (b URLBuilder) Wall(ownerID int64) string {
	return fmt.Sprintf("%s/wall%d", b.base(), ownerID)
}
